package rdp

import (
	"github.com/gogpu/rcp/gbi"
	"github.com/gogpu/rcp/texture"
)

// NumTiles is the number of tile descriptors.
const NumTiles = 8

// PaletteTMem is the TMEM offset of the first palette entry, in 64-bit
// words. CI4 palette p starts at PaletteTMem+16*p.
const PaletteTMem = 256

// Tile is one tile descriptor.
type Tile struct {
	Format  texture.Format
	Size    texture.Size
	Line    uint16
	TMem    uint16
	Palette uint8

	CMS, MaskS, ShiftS uint8
	CMT, MaskT, ShiftT uint8

	// Sampling rectangle in 10.2 fixed point.
	ULS, ULT, LRS, LRT uint16
}

// Width returns the tile width in texels.
func (t Tile) Width() int { return max((int(t.LRS)-int(t.ULS)+4)/4, 0) }

// Height returns the tile height in texels.
func (t Tile) Height() int { return max((int(t.LRT)-int(t.ULT)+4)/4, 0) }

// decodeTile reads the SETTILE fields except the sampling rectangle.
func decodeTile(w0, w1 uint32, t *Tile) {
	t.Format = texture.Format(gbi.Field(w0, 21, 3))
	t.Size = texture.Size(gbi.Field(w0, 19, 2))
	t.Line = uint16(gbi.Field(w0, 9, 9))
	t.TMem = uint16(gbi.Field(w0, 0, 9))
	t.Palette = uint8(gbi.Field(w1, 20, 4))
	t.CMT = uint8(gbi.Field(w1, 18, 2))
	t.MaskT = uint8(gbi.Field(w1, 14, 4))
	t.ShiftT = uint8(gbi.Field(w1, 10, 4))
	t.CMS = uint8(gbi.Field(w1, 8, 2))
	t.MaskS = uint8(gbi.Field(w1, 4, 4))
	t.ShiftS = uint8(gbi.Field(w1, 0, 4))
}

// setRect stores the rectangle of SETTILESIZE and LOADTILE.
func (t *Tile) setRect(w0, w1 uint32) {
	t.ULS = uint16(gbi.Field(w0, 12, 12))
	t.ULT = uint16(gbi.Field(w0, 0, 12))
	t.LRS = uint16(gbi.Field(w1, 12, 12))
	t.LRT = uint16(gbi.Field(w1, 0, 12))
}

// tileIndex extracts the tile number carried in bits 24..26 of w1.
func tileIndex(w1 uint32) int { return int(gbi.Field(w1, 24, 3)) }

// ImageLatch is the source image set by SETTIMG and consumed by the next
// load.
type ImageLatch struct {
	Format  texture.Format
	Size    texture.Size
	Width   int
	Address uint32
}

// TLUTLoad records a LOADTLUT: count palette entries at Address were
// placed at TMem.
type TLUTLoad struct {
	TMem    uint16
	Count   int
	Address uint32
}

// contains reports whether the TMEM offset falls inside the load.
func (l TLUTLoad) contains(tmem int) bool {
	return tmem >= int(l.TMem) && tmem < int(l.TMem)+l.Count
}
