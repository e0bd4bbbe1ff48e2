package draw

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/rdp"
)

// TextureBinding is the texture and sampler bound to one texture unit.
// The zero value means the unit is unused.
type TextureBinding struct {
	Texture       backend.TextureID
	Width, Height int
	Sampler       gputypes.SamplerDescriptor
}

// Bound reports whether a texture is attached.
func (b TextureBinding) Bound() bool { return b.Texture != 0 }

// RenderState is everything a triangle needs from the RCP state to be
// drawn. Triangles whose RenderState compares equal share a draw call.
type RenderState struct {
	Program backend.ProgramID
	Key     combiner.Key
	Layout  Layout

	Textures [2]TextureBinding
	Tiles    [2]rdp.Tile

	Depth    rdp.DepthState
	Blend    gputypes.BlendState
	Cull     gputypes.CullMode
	Viewport rdp.Rect
	Scissor  rdp.Rect

	Uniforms  combiner.Uniforms
	OtherMode rdp.OtherMode
	Combine   combiner.Params
}

// Blending reports whether the draw call needs alpha blending.
func (s *RenderState) Blending() bool { return rdp.Blending(s.Blend) }

// DepthStencil returns the depth pipeline state for a depth attachment of
// the given format.
func (s *RenderState) DepthStencil(format gputypes.TextureFormat) gputypes.DepthStencilState {
	return s.Depth.DepthStencil(format)
}
