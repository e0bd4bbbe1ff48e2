package gbi

import "encoding/binary"

// The functions in this file assemble F3DEX2 commands. They mirror the
// gSP*/gDP* macros used to author display lists and are the inverse of the
// decoders in the rcp package.

func op(o Opcode) uint32 { return uint32(o) << 24 }

// Vertex loads n vertices from addr into the vertex table starting at v0.
func Vertex(addr uint32, n, v0 int) Command {
	return Command{
		W0: op(OpVertex) | Shift(uint32(n), 12, 8) | Shift(uint32(v0+n), 1, 7),
		W1: addr,
	}
}

// Tri1 draws one triangle from vertex-table indices.
func Tri1(a, b, c int) Command {
	return Command{W0: op(OpTri1) | triIndices(a, b, c)}
}

// Tri2 draws two triangles from vertex-table indices.
func Tri2(a0, b0, c0, a1, b1, c1 int) Command {
	return Command{W0: op(OpTri2) | triIndices(a0, b0, c0), W1: triIndices(a1, b1, c1)}
}

func triIndices(a, b, c int) uint32 {
	return Shift(uint32(a*2), 16, 8) | Shift(uint32(b*2), 8, 8) | Shift(uint32(c*2), 0, 8)
}

// EndDL terminates the current display list.
func EndDL() Command { return Command{W0: op(OpEndDL)} }

// DisplayList calls the list at addr and returns afterwards.
func DisplayList(addr uint32) Command { return Command{W0: op(OpDL), W1: addr} }

// BranchList jumps to the list at addr without returning.
func BranchList(addr uint32) Command {
	return Command{W0: op(OpDL) | Shift(1, 16, 8), W1: addr}
}

// Matrix loads or multiplies the matrix at addr. params is a combination of
// the Mtx* flags.
func Matrix(addr uint32, params uint8) Command {
	return Command{
		W0: op(OpMatrix) | Shift(MatrixSize/8-1, 19, 5) | Shift(uint32(params^MtxPush), 0, 8),
		W1: addr,
	}
}

// PopMatrix pops n modelview matrices.
func PopMatrix(n int) Command {
	return Command{W0: op(OpPopMatrix) | Shift(MatrixSize/8-1, 19, 5), W1: uint32(n * MatrixSize)}
}

// SetGeometryMode clears then sets geometry mode bits.
func SetGeometryMode(clear, set GeometryMode) Command {
	return Command{W0: op(OpGeometryMode) | Shift(^uint32(clear), 0, 24), W1: uint32(set)}
}

// SetOtherModeL replaces length bits of the low other-mode word at shift.
func SetOtherModeL(shift, length uint, value uint32) Command {
	return Command{
		W0: op(OpSetOtherModeL) | Shift(uint32(32-shift-length), 8, 8) | Shift(uint32(length-1), 0, 8),
		W1: value,
	}
}

// SetOtherModeH replaces length bits of the high other-mode word at shift.
func SetOtherModeH(shift, length uint, value uint32) Command {
	return Command{
		W0: op(OpSetOtherModeH) | Shift(uint32(32-shift-length), 8, 8) | Shift(uint32(length-1), 0, 8),
		W1: value,
	}
}

// Texture sets the texture scale, level, tile and enable flag.
func Texture(scaleS, scaleT uint16, level, tile uint8, on bool) Command {
	var enable uint32
	if on {
		enable = 1
	}
	return Command{
		W0: op(OpTexture) | Shift(uint32(level), 11, 3) | Shift(uint32(tile), 8, 3) | Shift(enable, 1, 7),
		W1: Shift(uint32(scaleS), 16, 16) | Shift(uint32(scaleT), 0, 16),
	}
}

// MoveWord writes value into the RSP word table.
func MoveWord(index uint8, offset uint16, value uint32) Command {
	return Command{W0: op(OpMoveWord) | Shift(uint32(index), 16, 8) | Shift(uint32(offset), 0, 16), W1: value}
}

// SetSegment points a segment at a physical base address.
func SetSegment(seg int, base uint32) Command {
	return MoveWord(MWSegment, uint16(seg*4), base)
}

// NumLights sets the number of directional lights.
func NumLights(n int) Command {
	return MoveWord(MWNumLight, 0, uint32(n*24))
}

// FogFactor sets the fog multiplier and offset.
func FogFactor(mul, offset int16) Command {
	return MoveWord(MWFog, 0, uint32(uint16(mul))<<16|uint32(uint16(offset)))
}

// MoveMem copies size bytes at addr into the RSP structure index.
func MoveMem(index uint8, offset, size int, addr uint32) Command {
	return Command{
		W0: op(OpMoveMem) | Shift(uint32((size-1)/8), 19, 5) | Shift(uint32(offset/8), 8, 8) | Shift(uint32(index), 0, 8),
		W1: addr,
	}
}

// Viewport loads the viewport structure at addr.
func Viewport(addr uint32) Command { return MoveMem(MVViewport, 0, ViewportSize, addr) }

// Light loads directional light n (1-based, the last slot is ambient).
func Light(addr uint32, n int) Command {
	return MoveMem(MVLight, (n+1)*24, LightSize, addr)
}

// LookAt loads the lookat X (axis 0) or Y (axis 1) direction.
func LookAt(addr uint32, axis int) Command {
	return MoveMem(MVLight, axis*24, LightSize, addr)
}

// SetColor encodes one of the RGBA color setters.
func SetColor(o Opcode, r, g, b, a uint8) Command {
	return Command{W0: op(o), W1: uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)}
}

// SetPrimColor sets the primitive color and LOD fraction.
func SetPrimColor(minLevel, lodFrac, r, g, b, a uint8) Command {
	c := SetColor(OpSetPrimColor, r, g, b, a)
	c.W0 |= Shift(uint32(minLevel), 8, 8) | Shift(uint32(lodFrac), 0, 8)
	return c
}

// SetFillColor sets the packed fill color.
func SetFillColor(packed uint32) Command { return Command{W0: op(OpSetFillColor), W1: packed} }

// SetImage encodes SETTIMG, SETCIMG or SETZIMG.
func SetImage(o Opcode, format, size uint8, width int, addr uint32) Command {
	return Command{
		W0: op(o) | Shift(uint32(format), 21, 3) | Shift(uint32(size), 19, 2) | Shift(uint32(width-1), 0, 12),
		W1: addr,
	}
}

// TileParams are the fields of a SETTILE command.
type TileParams struct {
	Format, Size       uint8
	Line, TMem         uint16
	Tile, Palette      uint8
	CMT, MaskT, ShiftT uint8
	CMS, MaskS, ShiftS uint8
}

// SetTile configures a tile descriptor.
func SetTile(p TileParams) Command {
	return Command{
		W0: op(OpSetTile) | Shift(uint32(p.Format), 21, 3) | Shift(uint32(p.Size), 19, 2) |
			Shift(uint32(p.Line), 9, 9) | Shift(uint32(p.TMem), 0, 9),
		W1: Shift(uint32(p.Tile), 24, 3) | Shift(uint32(p.Palette), 20, 4) |
			Shift(uint32(p.CMT), 18, 2) | Shift(uint32(p.MaskT), 14, 4) | Shift(uint32(p.ShiftT), 10, 4) |
			Shift(uint32(p.CMS), 8, 2) | Shift(uint32(p.MaskS), 4, 4) | Shift(uint32(p.ShiftS), 0, 4),
	}
}

func tileRect(o Opcode, tile uint8, uls, ult, lrs, lrt uint32) Command {
	return Command{
		W0: op(o) | Shift(uls, 12, 12) | Shift(ult, 0, 12),
		W1: Shift(uint32(tile), 24, 3) | Shift(lrs, 12, 12) | Shift(lrt, 0, 12),
	}
}

// SetTileSize sets a tile's sampling rectangle in 10.2 fixed point.
func SetTileSize(tile uint8, uls, ult, lrs, lrt uint32) Command {
	return tileRect(OpSetTileSize, tile, uls, ult, lrs, lrt)
}

// LoadTile loads a rectangle of the latched image into a tile.
func LoadTile(tile uint8, uls, ult, lrs, lrt uint32) Command {
	return tileRect(OpLoadTile, tile, uls, ult, lrs, lrt)
}

// LoadBlock loads texels of the latched image into a tile.
func LoadBlock(tile uint8, uls, ult, texels, dxt uint32) Command {
	return tileRect(OpLoadBlock, tile, uls, ult, texels, dxt)
}

// LoadTLUT loads count palette entries through a tile.
func LoadTLUT(tile uint8, count int) Command {
	return Command{W0: op(OpLoadTLUT), W1: Shift(uint32(tile), 24, 3) | Shift(uint32(count-1)<<2, 12, 12)}
}

// SetScissor sets the scissor box in 10.2 fixed point.
func SetScissor(mode uint8, ulx, uly, lrx, lry uint32) Command {
	return Command{
		W0: op(OpSetScissor) | Shift(ulx, 12, 12) | Shift(uly, 0, 12),
		W1: Shift(uint32(mode), 24, 2) | Shift(lrx, 12, 12) | Shift(lry, 0, 12),
	}
}

// FillRect fills a screen rectangle in 10.2 fixed point.
func FillRect(ulx, uly, lrx, lry uint32) Command {
	return Command{
		W0: op(OpFillRect) | Shift(lrx, 12, 12) | Shift(lry, 0, 12),
		W1: Shift(ulx, 12, 12) | Shift(uly, 0, 12),
	}
}

// TexRect draws a textured screen rectangle. It spans three commands; the
// trailing two are RDPHALF words carrying texture coordinates and steps.
func TexRect(flip bool, tile uint8, ulx, uly, lrx, lry uint32, s, t, dsdx, dtdy uint16) []Command {
	o := OpTexRect
	if flip {
		o = OpTexRectFlip
	}
	return []Command{
		{
			W0: op(o) | Shift(lrx, 12, 12) | Shift(lry, 0, 12),
			W1: Shift(uint32(tile), 24, 3) | Shift(ulx, 12, 12) | Shift(uly, 0, 12),
		},
		{W0: op(OpRDPHalf1), W1: uint32(s)<<16 | uint32(t)},
		{W0: op(OpRDPHalf2), W1: uint32(dsdx)<<16 | uint32(dtdy)},
	}
}

// TexRectWide is TexRect for microcode with extended screen coordinates:
// each coordinate is a signed 24-bit value and the rectangle spans three
// commands.
func TexRectWide(flip bool, tile uint8, ulx, uly, lrx, lry int32, s, t, dsdx, dtdy uint16) []Command {
	o := OpTexRect
	if flip {
		o = OpTexRectFlip
	}
	return []Command{
		{W0: op(o) | uint32(lrx)&0xFFFFFF, W1: Shift(uint32(tile), 24, 3) | uint32(lry)&0xFFFFFF},
		{W0: op(OpRDPHalf1) | uint32(ulx)&0xFFFFFF, W1: uint32(s)<<16 | uint32(t)},
		{W0: op(OpRDPHalf2) | uint32(uly)&0xFFFFFF, W1: uint32(dsdx)<<16 | uint32(dtdy)},
	}
}

// FillRectWide is FillRect with extended screen coordinates.
func FillRectWide(ulx, uly, lrx, lry int32) []Command {
	return []Command{
		{W0: op(OpFillRect) | uint32(lrx)&0xFFFFFF, W1: uint32(lry) & 0xFFFFFF},
		{W0: op(OpRDPHalf1) | uint32(ulx)&0xFFFFFF, W1: uint32(uly) & 0xFFFFFF},
	}
}

// Encode serializes commands in the given byte order.
func Encode(order binary.ByteOrder, cmds ...Command) []byte {
	out := make([]byte, len(cmds)*CommandSize)
	for i, c := range cmds {
		order.PutUint32(out[i*CommandSize:], c.W0)
		order.PutUint32(out[i*CommandSize+4:], c.W1)
	}
	return out
}
