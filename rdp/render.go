package rdp

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rcp/gbi"
)

// Blender selector values of the M and B fields.
const (
	blendClrMem = 1 // M: framebuffer color
	blendA0     = 3 // A: zero
	blend1MA    = 0 // B: 1 - A
	blendAMem   = 1 // B: framebuffer alpha
	blendOne    = 2 // B: one
	blendZero   = 3 // B: zero
)

// DepthState is the depth configuration of a draw.
type DepthState struct {
	Test          bool
	Write         bool
	Compare       gputypes.CompareFunction
	PolygonOffset bool
}

// Depth translates the z bits of the render mode. Depth testing itself is
// switched by the geometry mode.
func (m OtherMode) Depth(g gbi.GeometryMode) DepthState {
	d := DepthState{
		Test:          g.Has(gbi.ZBuffer),
		Write:         m.L()&(1<<ShiftZUpdate) != 0,
		Compare:       gputypes.CompareFunctionAlways,
		PolygonOffset: m.ZMode() == ZModeDecal,
	}
	if m.L()&(1<<ShiftZCompare) != 0 {
		d.Compare = gputypes.CompareFunctionLess
		if m.ZMode() == ZModeDecal {
			d.Compare = gputypes.CompareFunctionLessEqual
		}
	}
	return d
}

// DepthStencil expands the state into a pipeline descriptor for a depth
// attachment of the given format.
func (d DepthState) DepthStencil(format gputypes.TextureFormat) gputypes.DepthStencilState {
	ds := gputypes.DefaultDepthStencilState(format)
	ds.DepthWriteEnabled = d.Write
	ds.DepthCompare = d.Compare
	if !d.Test {
		ds.DepthWriteEnabled = false
		ds.DepthCompare = gputypes.CompareFunctionAlways
	}
	if d.PolygonOffset {
		ds.DepthBias = -2
		ds.DepthBiasSlopeScale = -2
	}
	return ds
}

// Blend translates the blender configuration. Blending is only enabled
// when FORCE_BL is set and the second cycle mixes with framebuffer memory;
// coverage-based anti-aliasing is not modeled, so every other setup is
// opaque.
func (m OtherMode) Blend() gputypes.BlendState {
	l := m.L()
	if l&(1<<ShiftForceBlend) == 0 || m.lbits(ShiftM2, 2) != blendClrMem {
		return gputypes.BlendStateReplace()
	}

	src := gputypes.BlendFactorSrcAlpha
	switch {
	case m.lbits(ShiftA2, 2) == blendA0:
		src = gputypes.BlendFactorZero
	case l&(1<<ShiftAlphaCvgSel) != 0 && l&(1<<ShiftCvgXAlpha) == 0:
		src = gputypes.BlendFactorOne
	}

	var dst gputypes.BlendFactor
	switch m.lbits(ShiftB2, 2) {
	case blend1MA:
		switch src {
		case gputypes.BlendFactorSrcAlpha:
			dst = gputypes.BlendFactorOneMinusSrcAlpha
		case gputypes.BlendFactorOne:
			dst = gputypes.BlendFactorZero
		default:
			dst = gputypes.BlendFactorOne
		}
	case blendAMem:
		dst = gputypes.BlendFactorDstAlpha
	case blendOne:
		dst = gputypes.BlendFactorOne
	case blendZero:
		dst = gputypes.BlendFactorZero
	}

	c := gputypes.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: gputypes.BlendOperationAdd}
	return gputypes.BlendState{Color: c, Alpha: c}
}

// Blending reports whether b differs from plain replacement.
func Blending(b gputypes.BlendState) bool { return b != gputypes.BlendStateReplace() }

// Cull translates the geometry-mode cull bits. With both bits set the RSP
// rejects every triangle before it gets here, so the pair maps to no
// culling.
func Cull(g gbi.GeometryMode) gputypes.CullMode {
	switch g & gbi.CullBoth {
	case gbi.CullFront:
		return gputypes.CullModeFront
	case gbi.CullBack:
		return gputypes.CullModeBack
	}
	return gputypes.CullModeNone
}
