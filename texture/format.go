package texture

import "fmt"

// Format is the G_IM_FMT_* texel format of an image or tile.
type Format uint8

// Texel formats.
const (
	FormatRGBA Format = 0
	FormatYUV  Format = 1
	FormatCI   Format = 2
	FormatIA   Format = 3
	FormatI    Format = 4
)

func (f Format) String() string {
	switch f {
	case FormatRGBA:
		return "RGBA"
	case FormatYUV:
		return "YUV"
	case FormatCI:
		return "CI"
	case FormatIA:
		return "IA"
	case FormatI:
		return "I"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Size is the G_IM_SIZ_* texel size.
type Size uint8

// Texel sizes.
const (
	Size4b  Size = 0
	Size8b  Size = 1
	Size16b Size = 2
	Size32b Size = 3
)

func (s Size) String() string {
	switch s {
	case Size4b:
		return "4b"
	case Size8b:
		return "8b"
	case Size16b:
		return "16b"
	case Size32b:
		return "32b"
	default:
		return fmt.Sprintf("Size(%d)", uint8(s))
	}
}

// Bits returns the number of bits per texel.
func (s Size) Bits() int {
	return 4 << (s & 3)
}

// ByteLen returns the number of source bytes a width×height image occupies.
func ByteLen(s Size, width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return (width*height*s.Bits() + 7) / 8
}

// LUT is the palette entry format selected by other-mode TEXTLUT.
type LUT uint8

// Palette entry formats.
const (
	LUTNone   LUT = 0
	LUTRGBA16 LUT = 2
	LUTIA16   LUT = 3
)

func (l LUT) String() string {
	switch l {
	case LUTNone:
		return "none"
	case LUTRGBA16:
		return "RGBA16"
	case LUTIA16:
		return "IA16"
	default:
		return fmt.Sprintf("LUT(%d)", uint8(l))
	}
}

// Filter is the other-mode TEXTFILT texture filter.
type Filter uint8

// Texture filters.
const (
	FilterPoint   Filter = 0
	FilterBilerp  Filter = 2
	FilterAverage Filter = 3
)

func (f Filter) String() string {
	switch f {
	case FilterPoint:
		return "point"
	case FilterBilerp:
		return "bilerp"
	case FilterAverage:
		return "average"
	default:
		return fmt.Sprintf("Filter(%d)", uint8(f))
	}
}

// Linear reports whether the sampler should filter linearly.
func (f Filter) Linear() bool { return f != FilterPoint }
