package rdp

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/gbi"
	"github.com/gogpu/rcp/texture"
)

// ErrNoTexture is returned when a tile samples TMEM nothing was loaded into.
var ErrNoTexture = errors.New("rdp: tile references unloaded texture memory")

// Image is a color or depth image set by SETCIMG or SETZIMG.
type Image struct {
	Format  texture.Format
	Size    texture.Size
	Width   int
	Address uint32
}

// KeyChannel holds the chroma key of one color channel.
type KeyChannel struct {
	Width  uint16 // 4.8 fixed point
	Center uint8
	Scale  uint8
}

// PrimDepth is the depth used when ZSRCSEL selects the primitive.
type PrimDepth struct {
	Z, DeltaZ uint16
}

// State is the RDP half of the RCP.
type State struct {
	OtherMode OtherMode
	Combine   combiner.Params

	Tiles [NumTiles]Tile
	Image ImageLatch

	// TMem maps a TMEM offset to the source address last loaded there.
	TMem map[uint16]uint32
	TLUT []TLUTLoad
	// TexturesChanged marks texture units whose source must be re-imported.
	TexturesChanged [2]bool
	// Tile is the first tile triangles sample, from G_TEXTURE.
	Tile int

	EnvColor, PrimColor, BlendColor, FogColor color.RGBA
	FillColor                                 color.RGBA
	PrimLODFrac, PrimMinLevel                 uint8
	PrimDepth                                 PrimDepth

	// Convert holds the YUV conversion coefficients K0..K5.
	Convert [6]int16
	// Key holds the chroma key for red, green and blue.
	Key [3]KeyChannel

	ColorImage Image
	DepthImage Image

	Output   Output
	Viewport Rect
	Scissor  Rect
}

// NewState returns a reset RDP state for the given output size.
func NewState(out Output) *State {
	s := &State{Output: out}
	s.Reset()
	return s
}

// Reset restores power-on state. The output size is kept.
func (s *State) Reset() {
	out := s.Output
	*s = State{
		Output:   out,
		TMem:     make(map[uint16]uint32),
		Combine:  combiner.Shaded,
		Viewport: out.Full(),
		Scissor:  out.Full(),
	}
	s.TexturesChanged = [2]bool{true, true}
}

// SetOtherModeL applies SETOTHERMODE_L. It reports false for a window that
// does not fit the low word.
func (s *State) SetOtherModeL(w0, w1 uint32) bool { return s.OtherMode.SetL(w0, w1) }

// SetOtherModeH applies SETOTHERMODE_H. It reports false for a window that
// does not fit the high word.
func (s *State) SetOtherModeH(w0, w1 uint32) bool { return s.OtherMode.SetH(w0, w1) }

// SetCombine decodes SETCOMBINE. Corrupt mux values leave the current
// combiner in place.
func (s *State) SetCombine(w0, w1 uint32) error {
	p, err := combiner.Decode(w0, w1)
	if err != nil {
		return err
	}
	s.Combine = p
	return nil
}

// SetTile applies SETTILE.
func (s *State) SetTile(w0, w1 uint32) {
	decodeTile(w0, w1, &s.Tiles[tileIndex(w1)])
	s.TexturesChanged = [2]bool{true, true}
}

// SetTileSize applies SETTILESIZE.
func (s *State) SetTileSize(w0, w1 uint32) {
	s.Tiles[tileIndex(w1)].setRect(w0, w1)
	s.TexturesChanged = [2]bool{true, true}
}

// SetTextureImage applies SETTIMG. addr must already be resolved.
func (s *State) SetTextureImage(w0, addr uint32) {
	s.Image = ImageLatch{
		Format:  texture.Format(gbi.Field(w0, 21, 3)),
		Size:    texture.Size(gbi.Field(w0, 19, 2)),
		Width:   int(gbi.Field(w0, 0, 12)) + 1,
		Address: addr,
	}
}

// LoadBlock applies LOADBLOCK: the tile's TMEM now holds the latched image.
func (s *State) LoadBlock(_, w1 uint32) {
	s.load(&s.Tiles[tileIndex(w1)])
}

// LoadTile applies LOADTILE, which also sets the tile rectangle.
func (s *State) LoadTile(w0, w1 uint32) {
	t := &s.Tiles[tileIndex(w1)]
	t.setRect(w0, w1)
	s.load(t)
}

func (s *State) load(t *Tile) {
	s.TMem[t.TMem] = s.Image.Address
	unit := 0
	if t.TMem != 0 {
		unit = 1
	}
	s.TexturesChanged[unit] = true
}

// LoadTLUT applies LOADTLUT. A later load covering the same TMEM start
// replaces the earlier one.
func (s *State) LoadTLUT(_, w1 uint32) {
	t := &s.Tiles[tileIndex(w1)]
	load := TLUTLoad{
		TMem:    t.TMem,
		Count:   int(gbi.Field(w1, 14, 10)) + 1,
		Address: s.Image.Address,
	}
	for i, l := range s.TLUT {
		if l.TMem == load.TMem {
			s.TLUT[i] = load
			s.TexturesChanged = [2]bool{true, true}
			return
		}
	}
	s.TLUT = append(s.TLUT, load)
	s.TexturesChanged = [2]bool{true, true}
}

// SetColor applies SETENVCOLOR, SETPRIMCOLOR, SETBLENDCOLOR or
// SETFOGCOLOR. Other opcodes are ignored.
func (s *State) SetColor(op gbi.Opcode, w0, w1 uint32) {
	c := DecodeColor(w1)
	switch op {
	case gbi.OpSetEnvColor:
		s.EnvColor = c
	case gbi.OpSetPrimColor:
		s.PrimColor = c
		s.PrimMinLevel = uint8(gbi.Field(w0, 8, 8))
		s.PrimLODFrac = uint8(gbi.Field(w0, 0, 8))
	case gbi.OpSetBlendColor:
		s.BlendColor = c
	case gbi.OpSetFogColor:
		s.FogColor = c
	}
}

// SetFillColor applies SETFILLCOLOR. Only the low 5551 halfword is used.
func (s *State) SetFillColor(w1 uint32) { s.FillColor = RGBA5551(uint16(w1)) }

// SetScissor applies SETSCISSOR.
func (s *State) SetScissor(w0, w1 uint32) {
	s.Scissor = s.Output.ScissorRect(decodeScissor(w0, w1))
}

// SetViewport applies a G_MOVEMEM viewport.
func (s *State) SetViewport(vp Viewport) {
	s.Viewport = s.Output.ViewportRect(vp)
}

// SetConvert applies SETCONVERT.
func (s *State) SetConvert(w0, w1 uint32) {
	k2 := gbi.Field(w0, 0, 4)<<5 | gbi.Field(w1, 27, 5)
	raw := [6]uint32{
		gbi.Field(w0, 13, 9), gbi.Field(w0, 4, 9), k2,
		gbi.Field(w1, 18, 9), gbi.Field(w1, 9, 9), gbi.Field(w1, 0, 9),
	}
	for i, v := range raw {
		s.Convert[i] = int16(gbi.SignExtend(v, 9))
	}
}

// SetKeyR applies SETKEYR.
func (s *State) SetKeyR(_, w1 uint32) {
	s.Key[0] = KeyChannel{
		Width:  uint16(gbi.Field(w1, 16, 12)),
		Center: uint8(gbi.Field(w1, 8, 8)),
		Scale:  uint8(gbi.Field(w1, 0, 8)),
	}
}

// SetKeyGB applies SETKEYGB.
func (s *State) SetKeyGB(w0, w1 uint32) {
	s.Key[1] = KeyChannel{
		Width:  uint16(gbi.Field(w0, 12, 12)),
		Center: uint8(gbi.Field(w1, 24, 8)),
		Scale:  uint8(gbi.Field(w1, 16, 8)),
	}
	s.Key[2] = KeyChannel{
		Width:  uint16(gbi.Field(w0, 0, 12)),
		Center: uint8(gbi.Field(w1, 8, 8)),
		Scale:  uint8(gbi.Field(w1, 0, 8)),
	}
}

// SetPrimDepth applies SETPRIMDEPTH.
func (s *State) SetPrimDepth(_, w1 uint32) {
	s.PrimDepth = PrimDepth{Z: uint16(w1 >> 16), DeltaZ: uint16(w1)}
}

// SetImage applies SETCIMG or SETZIMG. addr must already be resolved.
func (s *State) SetImage(op gbi.Opcode, w0, addr uint32) {
	img := Image{
		Format:  texture.Format(gbi.Field(w0, 21, 3)),
		Size:    texture.Size(gbi.Field(w0, 19, 2)),
		Width:   int(gbi.Field(w0, 0, 12)) + 1,
		Address: addr,
	}
	if op == gbi.OpSetDepthImage {
		s.DepthImage = img
		return
	}
	s.ColorImage = img
}

// DepthAliased reports whether the color image is the depth image, which
// display lists use to clear the depth buffer with FILLRECT.
func (s *State) DepthAliased() bool {
	return s.ColorImage.Address != 0 && s.ColorImage.Address == s.DepthImage.Address
}

// Textures reports which texture units the current combiner samples.
func (s *State) Textures() (tex0, tex1 bool) {
	return s.Combine.Textures(s.OtherMode.TwoCycle())
}

// UsesTexture1 reports whether the second texture unit is live.
func (s *State) UsesTexture1() bool {
	_, tex1 := s.Textures()
	return tex1
}

// TextureTile returns the tile sampled by a texture unit.
func (s *State) TextureTile(unit int) Tile {
	return s.Tiles[(s.Tile+unit)&(NumTiles-1)]
}

// TextureSource describes where the texels of a texture unit come from.
type TextureSource struct {
	Key     texture.Key
	Tile    Tile
	Width   int
	Height  int
	Stride  int // source row length in texels
	Palette uint32
	LUT     texture.LUT
}

// Source resolves the TMEM indirection of a texture unit.
func (s *State) Source(unit int) (TextureSource, error) {
	t := s.TextureTile(unit)
	addr, ok := s.TMem[t.TMem]
	if !ok {
		return TextureSource{}, fmt.Errorf("%w: unit %d tmem %d", ErrNoTexture, unit, t.TMem)
	}
	src := TextureSource{
		Key:    texture.Key{Address: addr, Format: t.Format, Size: t.Size},
		Tile:   t,
		Width:  t.Width(),
		Height: t.Height(),
		Stride: t.Width(),
		LUT:    s.OtherMode.TextureLUT(),
	}
	if s.Image.Address == addr && s.Image.Width > src.Width && s.Image.Size == t.Size {
		src.Stride = s.Image.Width
	}
	if t.Format == texture.FormatCI {
		pal, ok := s.PaletteAddress(t)
		if !ok {
			return TextureSource{}, fmt.Errorf("%w: unit %d palette %d", ErrNoTexture, unit, t.Palette)
		}
		src.Palette = pal
	}
	return src, nil
}

// PaletteAddress finds the source address of the palette a color-index
// tile reads. Entries are 16 bits wide.
func (s *State) PaletteAddress(t Tile) (uint32, bool) {
	target := PaletteTMem
	if t.Size == texture.Size4b {
		target += 16 * int(t.Palette)
	}
	for i := len(s.TLUT) - 1; i >= 0; i-- {
		l := s.TLUT[i]
		if l.contains(target) {
			return l.Address + uint32(target-int(l.TMem))*2, true
		}
	}
	return 0, false
}
