package draw

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rcp/combiner"
)

// Layout describes the interleaved vertex format of a draw call:
// position (4 floats), color (4 floats), an optional uv pair and up to
// combiner.MaxInputs combiner inputs of 3 or 4 floats each.
type Layout struct {
	Textured   bool
	Inputs     int
	InputAlpha bool
}

// NewLayout returns the layout a generated program expects.
func NewLayout(p *combiner.Program) Layout {
	return Layout{
		Textured:   p.Key.Textured(),
		Inputs:     p.Mapping.NumInputs,
		InputAlpha: p.Mapping.UseAlpha,
	}
}

// InputSize is the number of floats per combiner input.
func (l Layout) InputSize() int {
	if l.InputAlpha {
		return 4
	}
	return 3
}

// Stride returns the number of floats per vertex.
func (l Layout) Stride() int {
	n := 8
	if l.Textured {
		n += 2
	}
	return n + l.Inputs*l.InputSize()
}

// VertexBufferLayout returns the GPU vertex buffer description. Shader
// locations match the ones the combiner generates.
func (l Layout) VertexBufferLayout() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, 0, 3+l.Inputs)
	var off uint64
	add := func(format gputypes.VertexFormat, loc uint32, floats int) {
		attrs = append(attrs, gputypes.VertexAttribute{Format: format, Offset: off, ShaderLocation: loc})
		off += uint64(floats) * 4
	}

	add(gputypes.VertexFormatFloat32x4, combiner.PositionLocation, 4)
	add(gputypes.VertexFormatFloat32x4, combiner.ColorLocation, 4)
	if l.Textured {
		add(gputypes.VertexFormatFloat32x2, combiner.UVLocation, 2)
	}
	format := gputypes.VertexFormatFloat32x3
	if l.InputAlpha {
		format = gputypes.VertexFormatFloat32x4
	}
	for i := 0; i < l.Inputs; i++ {
		add(format, combiner.InputLocation+uint32(i), l.InputSize())
	}

	return gputypes.VertexBufferLayout{
		ArrayStride: off,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}
