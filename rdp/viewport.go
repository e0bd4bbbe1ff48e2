package rdp

import (
	"encoding/binary"

	"github.com/gogpu/rcp/gbi"
)

// Native resolution the display list addresses.
const (
	ScreenWidth  = 320
	ScreenHeight = 240
)

// Rect is a screen rectangle in output pixels, origin at the bottom left.
type Rect struct {
	X, Y          uint16
	Width, Height uint16
}

// Viewport is the G_MOVEMEM viewport structure: scale and translation in
// 14.2 fixed point.
type Viewport struct {
	Scale     [4]int16
	Translate [4]int16
}

// DecodeViewport reads the 16-byte viewport structure.
func DecodeViewport(b []byte, order binary.ByteOrder) Viewport {
	var vp Viewport
	for i := 0; i < 4; i++ {
		vp.Scale[i] = int16(order.Uint16(b[i*2:]))
		vp.Translate[i] = int16(order.Uint16(b[8+i*2:]))
	}
	return vp
}

// Output describes the framebuffer the draw calls target.
type Output struct {
	Width, Height int
}

// ScaleX is the horizontal factor from native to output pixels.
func (o Output) ScaleX() float32 { return float32(o.Width) / ScreenWidth }

// ScaleY is the vertical factor from native to output pixels.
func (o Output) ScaleY() float32 { return float32(o.Height) / ScreenHeight }

// AdjustX squeezes clip-space x so 4:3 content keeps its aspect ratio on a
// wider output.
func (o Output) AdjustX(x float32) float32 {
	if o.Width <= 0 || o.Height <= 0 {
		return x
	}
	return x * (4.0 / 3.0) / (float32(o.Width) / float32(o.Height))
}

// Full returns the whole output as a rectangle.
func (o Output) Full() Rect {
	return Rect{Width: clampU16(float32(o.Width)), Height: clampU16(float32(o.Height))}
}

// ViewportRect converts a viewport to output pixels.
func (o Output) ViewportRect(vp Viewport) Rect {
	w := 2 * float32(vp.Scale[0]) / 4
	h := 2 * float32(vp.Scale[1]) / 4
	x := float32(vp.Translate[0])/4 - w/2
	y := ScreenHeight - (float32(vp.Translate[1])/4 + h/2)
	sx, sy := o.ScaleX(), o.ScaleY()
	return Rect{X: clampU16(x * sx), Y: clampU16(y * sy), Width: clampU16(w * sx), Height: clampU16(h * sy)}
}

// ScissorRect converts a SETSCISSOR box in 10.2 fixed point to output
// pixels.
func (o Output) ScissorRect(ulx, uly, lrx, lry uint32) Rect {
	sx, sy := o.ScaleX(), o.ScaleY()
	x := float32(ulx) / 4 * sx
	y := (ScreenHeight - float32(lry)/4) * sy
	w := (float32(lrx) - float32(ulx)) / 4 * sx
	h := (float32(lry) - float32(uly)) / 4 * sy
	return Rect{X: clampU16(x), Y: clampU16(y), Width: clampU16(w), Height: clampU16(h)}
}

// decodeScissor reads the SETSCISSOR box.
func decodeScissor(w0, w1 uint32) (ulx, uly, lrx, lry uint32) {
	return gbi.Field(w0, 12, 12), gbi.Field(w0, 0, 12), gbi.Field(w1, 12, 12), gbi.Field(w1, 0, 12)
}

func clampU16(v float32) uint16 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 0xFFFF:
		return 0xFFFF
	}
	return uint16(v)
}
