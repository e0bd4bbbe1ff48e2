package rdp

import "image/color"

// DecodeColor reads an RGBA8888 color from the second word of a
// SET*COLOR command.
func DecodeColor(w1 uint32) color.RGBA {
	return color.RGBA{R: uint8(w1 >> 24), G: uint8(w1 >> 16), B: uint8(w1 >> 8), A: uint8(w1)}
}

// RGBA5551 expands a packed 5551 fill color.
func RGBA5551(v uint16) color.RGBA {
	expand := func(c uint16) uint8 { return uint8(c<<3 | c>>2) }
	c := color.RGBA{
		R: expand(v >> 11 & 0x1F),
		G: expand(v >> 6 & 0x1F),
		B: expand(v >> 1 & 0x1F),
	}
	if v&1 != 0 {
		c.A = 0xFF
	}
	return c
}

// Normalize converts a color to 0..1 floats.
func Normalize(c color.RGBA) [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}
