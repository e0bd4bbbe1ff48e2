package rdp

import "github.com/gogpu/rcp/texture"

// OtherMode is the packed 64-bit render mode: the low word is
// SETOTHERMODE_L, the high word SETOTHERMODE_H.
type OtherMode uint64

// Bit positions in the low word.
const (
	ShiftAlphaCompare = 0
	ShiftZSrcSel      = 2
	ShiftAAEnable     = 3
	ShiftZCompare     = 4
	ShiftZUpdate      = 5
	ShiftImageRead    = 6
	ShiftClearOnCvg   = 7
	ShiftCvgDst       = 8
	ShiftZMode        = 10
	ShiftCvgXAlpha    = 12
	ShiftAlphaCvgSel  = 13
	ShiftForceBlend   = 14
	ShiftB2           = 16
	ShiftB1           = 18
	ShiftM2           = 20
	ShiftM1           = 22
	ShiftA2           = 24
	ShiftA1           = 26
	ShiftP2           = 28
	ShiftP1           = 30
)

// Bit positions in the high word.
const (
	ShiftBlendMask   = 0
	ShiftAlphaDither = 4
	ShiftRGBDither   = 6
	ShiftCombKey     = 8
	ShiftTextConv    = 9
	ShiftTextFilt    = 12
	ShiftTextLUT     = 14
	ShiftTextLOD     = 16
	ShiftTextDetail  = 17
	ShiftTextPersp   = 19
	ShiftCycleType   = 20
	ShiftColorDither = 22
	ShiftPipeline    = 23
)

// CycleType is the RDP pipeline mode.
type CycleType uint8

// Cycle types.
const (
	Cycle1 CycleType = iota
	Cycle2
	CycleCopy
	CycleFill
)

func (c CycleType) String() string {
	switch c {
	case Cycle1:
		return "1CYCLE"
	case Cycle2:
		return "2CYCLE"
	case CycleCopy:
		return "COPY"
	default:
		return "FILL"
	}
}

// ZMode selects the depth comparison policy.
type ZMode uint8

// Z modes.
const (
	ZModeOpaque ZMode = iota
	ZModeInterpenetrating
	ZModeTranslucent
	ZModeDecal
)

// Alpha compare modes.
const (
	AlphaCompareNone      = 0
	AlphaCompareThreshold = 1
	AlphaCompareDither    = 3
)

// NewOtherMode packs the two command words.
func NewOtherMode(l, h uint32) OtherMode { return OtherMode(uint64(h)<<32 | uint64(l)) }

// L returns the low word.
func (m OtherMode) L() uint32 { return uint32(m) }

// H returns the high word.
func (m OtherMode) H() uint32 { return uint32(m >> 32) }

// Merge replaces length bits starting at shift with the same bits of value.
// Bits outside the window are left untouched. A window reaching past bit
// 63 is truncated.
func (m *OtherMode) Merge(shift, length int, value uint64) {
	if shift < 0 || shift > 63 || length <= 0 {
		return
	}
	length = min(length, 64-shift)
	var mask uint64
	if length == 64 {
		mask = ^uint64(0)
	} else {
		mask = (uint64(1)<<length - 1) << shift
	}
	*m = OtherMode(uint64(*m)&^mask | value&mask)
}

// window decodes the shift/length fields of a SETOTHERMODE command whose
// half ends at bit top.
func window(w0 uint32, top int) (shift, length int) {
	a := int(w0 >> 8 & 0xFF)
	b := int(w0 & 0xFF)
	return top - a - b, b + 1
}

// SetL applies a SETOTHERMODE_L command. It reports false when the encoded
// window does not fit the low word.
func (m *OtherMode) SetL(w0, w1 uint32) bool {
	shift, length := window(w0, 31)
	if shift < 0 || shift+length > 32 {
		return false
	}
	m.Merge(shift, length, uint64(w1))
	return true
}

// SetH applies a SETOTHERMODE_H command. It reports false when the encoded
// window does not fit the high word.
func (m *OtherMode) SetH(w0, w1 uint32) bool {
	shift, length := window(w0, 63)
	if shift < 32 || shift+length > 64 {
		return false
	}
	m.Merge(shift, length, uint64(w1)<<32)
	return true
}

func (m OtherMode) lbits(shift, n uint) uint32 { return m.L() >> shift & (1<<n - 1) }
func (m OtherMode) hbits(shift, n uint) uint32 { return m.H() >> shift & (1<<n - 1) }

// CycleType returns the pipeline mode.
func (m OtherMode) CycleType() CycleType { return CycleType(m.hbits(ShiftCycleType, 2)) }

// TwoCycle reports whether both combiner cycles run.
func (m OtherMode) TwoCycle() bool { return m.CycleType() == Cycle2 }

// TextureFilter returns the TEXTFILT field. The reserved value 1 reads as
// point sampling.
func (m OtherMode) TextureFilter() texture.Filter {
	f := texture.Filter(m.hbits(ShiftTextFilt, 2))
	if f == 1 {
		return texture.FilterPoint
	}
	return f
}

// TextureLUT returns the palette entry format.
func (m OtherMode) TextureLUT() texture.LUT { return texture.LUT(m.hbits(ShiftTextLUT, 2)) }

// TextureLOD reports whether mip-mapping is requested.
func (m OtherMode) TextureLOD() bool { return m.hbits(ShiftTextLOD, 1) != 0 }

// AlphaCompare returns the alpha compare mode.
func (m OtherMode) AlphaCompare() uint32 { return m.lbits(ShiftAlphaCompare, 2) }

// ZMode returns the depth mode.
func (m OtherMode) ZMode() ZMode { return ZMode(m.lbits(ShiftZMode, 2)) }

// UseAlpha reports whether the blender reads the combined alpha.
func (m OtherMode) UseAlpha() bool { return m.L()&(1<<ShiftB1) == 0 }

// UseFog reports whether the first-cycle P selector picks the fog color.
func (m OtherMode) UseFog() bool { return m.L()>>ShiftP1 == 3 }

// TextureEdge reports whether coverage is multiplied by alpha.
func (m OtherMode) TextureEdge() bool { return m.L()&(1<<ShiftCvgXAlpha) != 0 }

// AlphaThreshold reports threshold alpha compare.
func (m OtherMode) AlphaThreshold() bool { return m.AlphaCompare() == AlphaCompareThreshold }

// AlphaDither reports dithered alpha compare.
func (m OtherMode) AlphaDither() bool { return m.AlphaCompare() == AlphaCompareDither }

// ProgramAlpha reports whether generated programs carry alpha. Texture
// edge mode needs it even when blending ignores alpha.
func (m OtherMode) ProgramAlpha() bool { return m.UseAlpha() || m.TextureEdge() }
