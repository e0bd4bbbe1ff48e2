package texture

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for format/size pairs with no decoder.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")

	// ErrShortData is returned when the source holds fewer bytes than the
	// image dimensions require.
	ErrShortData = errors.New("texture: source data too short")

	// ErrMissingPalette is returned when a color-index image has no palette.
	ErrMissingPalette = errors.New("texture: color-index image without palette")
)

// Decode converts big-endian N64 texels into tightly packed RGBA8.
//
// palette is only consulted for FormatCI and must hold RGBA8 entries as
// produced by DecodePalette.
func Decode(format Format, size Size, src []byte, width, height int, palette []byte) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("texture: invalid dimensions %dx%d", width, height)
	}
	if need := ByteLen(size, width, height); len(src) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortData, len(src), need)
	}

	n := width * height
	dst := make([]byte, n*4)

	switch {
	case format == FormatRGBA && size == Size16b:
		for i := 0; i < n; i++ {
			putRGBA5551(dst[i*4:], uint16(src[i*2])<<8|uint16(src[i*2+1]))
		}
	case format == FormatRGBA && size == Size32b:
		copy(dst, src[:n*4])
	case format == FormatIA && size == Size4b:
		for i := 0; i < n; i++ {
			v := nibble(src, i)
			in := v >> 1
			putIA(dst[i*4:], in<<5|in<<2|in>>1, (v&1)*0xFF)
		}
	case format == FormatIA && size == Size8b:
		for i := 0; i < n; i++ {
			v := src[i]
			putIA(dst[i*4:], (v>>4)*0x11, (v&0x0F)*0x11)
		}
	case format == FormatIA && size == Size16b:
		for i := 0; i < n; i++ {
			putIA(dst[i*4:], src[i*2], src[i*2+1])
		}
	case format == FormatI && size == Size4b:
		for i := 0; i < n; i++ {
			v := nibble(src, i) * 0x11
			putIA(dst[i*4:], v, v)
		}
	case format == FormatI && size == Size8b:
		for i := 0; i < n; i++ {
			putIA(dst[i*4:], src[i], src[i])
		}
	case format == FormatCI && (size == Size4b || size == Size8b):
		if len(palette) == 0 {
			return nil, ErrMissingPalette
		}
		for i := 0; i < n; i++ {
			var idx int
			if size == Size4b {
				idx = int(nibble(src, i))
			} else {
				idx = int(src[i])
			}
			if off := idx * 4; off+4 <= len(palette) {
				copy(dst[i*4:i*4+4], palette[off:off+4])
			}
		}
	case format == FormatYUV && size == Size16b:
		decodeYUV(dst, src, n)
	default:
		return nil, fmt.Errorf("%w: %v %v", ErrUnsupportedFormat, format, size)
	}
	return dst, nil
}

// DecodePalette converts count 16-bit palette entries into RGBA8.
func DecodePalette(src []byte, count int, lut LUT) ([]byte, error) {
	if len(src) < count*2 {
		return nil, fmt.Errorf("%w: palette has %d bytes, need %d", ErrShortData, len(src), count*2)
	}
	dst := make([]byte, count*4)
	for i := 0; i < count; i++ {
		if lut == LUTIA16 {
			putIA(dst[i*4:], src[i*2], src[i*2+1])
			continue
		}
		putRGBA5551(dst[i*4:], uint16(src[i*2])<<8|uint16(src[i*2+1]))
	}
	return dst, nil
}

// PaletteEntries returns the number of palette entries a color-index size
// addresses.
func PaletteEntries(s Size) int {
	if s == Size4b {
		return 16
	}
	return 256
}

func nibble(src []byte, i int) uint8 {
	b := src[i/2]
	if i%2 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

func expand5(v uint16) uint8 {
	v &= 0x1F
	return uint8(v<<3 | v>>2)
}

func putRGBA5551(dst []byte, p uint16) {
	dst[0] = expand5(p >> 11)
	dst[1] = expand5(p >> 6)
	dst[2] = expand5(p >> 1)
	dst[3] = uint8(p&1) * 0xFF
}

func putIA(dst []byte, i, a uint8) {
	dst[0], dst[1], dst[2], dst[3] = i, i, i, a
}

// decodeYUV unpacks UYVY pairs with the RDP's default conversion.
func decodeYUV(dst, src []byte, n int) {
	for i := 0; i < n; i += 2 {
		base := i * 2
		u := float32(src[base]) - 128
		y0 := float32(src[base+1])
		if i+1 >= n {
			putYUV(dst[i*4:], y0, u, 0)
			break
		}
		v := float32(src[base+2]) - 128
		y1 := float32(src[base+3])

		putYUV(dst[i*4:], y0, u, v)
		putYUV(dst[(i+1)*4:], y1, u, v)
	}
}

func putYUV(dst []byte, y, u, v float32) {
	dst[0] = clamp8(y + 1.402*v)
	dst[1] = clamp8(y - 0.344*u - 0.714*v)
	dst[2] = clamp8(y + 1.772*u)
	dst[3] = 0xFF
}

func clamp8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
