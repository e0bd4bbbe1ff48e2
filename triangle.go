package rcp

import (
	"errors"
	"fmt"

	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/draw"
	"github.com/gogpu/rcp/rdp"
	"github.com/gogpu/rcp/rsp"
	"github.com/gogpu/rcp/texture"
)

// triangle submits the triangle formed by three vertex-table entries.
// Triangles the current state cannot express are logged and dropped;
// only backend and corrupt-data failures are returned.
func (r *RCP) triangle(a, b, c int) error {
	r.stats.Triangles++
	if r.RSP.Cull(a, b, c) {
		r.stats.Culled++
		return nil
	}

	prog, err := r.program()
	if err != nil {
		if errors.Is(err, combiner.ErrUnsupported) {
			r.skip("combiner", err)
			return nil
		}
		return err
	}

	state := r.renderState(prog)
	if err := r.bindTextures(&state); err != nil {
		r.skip("texture", err)
		return nil
	}

	reason, err := r.acc.Add(&state, r.vertexData(&state, prog, [3]int{a, b, c}))
	if err != nil {
		return err
	}
	if reason != draw.FlushNone {
		r.logger.Debug("rcp: draw call flushed", "reason", reason.String(), "pending", r.acc.Len())
	}
	return nil
}

func (r *RCP) skip(what string, err error) {
	r.stats.Skipped++
	r.logger.Warn("rcp: triangle skipped", "cause", what, "err", err)
}

// program returns the compiled program for the current combiner and
// other-mode state.
func (r *RCP) program() (*combiner.Program, error) {
	om := r.RDP.OtherMode
	key := combiner.NewKey(r.RDP.Combine, combiner.KeyOptions{
		TwoCycle:       om.TwoCycle(),
		Fog:            om.UseFog(),
		Alpha:          om.ProgramAlpha(),
		TextureEdge:    om.TextureEdge(),
		AlphaThreshold: om.AlphaThreshold(),
		AlphaDither:    om.AlphaDither(),
		Filter:         om.TextureFilter(),
	})
	return r.programs.Program(key)
}

func (r *RCP) renderState(p *combiner.Program) draw.RenderState {
	om := r.RDP.OtherMode
	gm := r.RSP.GeometryMode
	return draw.RenderState{
		Program:   p.Handle,
		Key:       p.Key,
		Layout:    draw.NewLayout(p),
		Depth:     om.Depth(gm),
		Blend:     om.Blend(),
		Cull:      rdp.Cull(gm),
		Viewport:  r.RDP.Viewport,
		Scissor:   r.RDP.Scissor,
		Uniforms:  r.uniforms(),
		OtherMode: om,
		Combine:   r.RDP.Combine,
	}
}

func (r *RCP) uniforms() combiner.Uniforms {
	s := r.RDP
	u := combiner.Uniforms{
		PrimColor:   rdp.Normalize(s.PrimColor),
		EnvColor:    rdp.Normalize(s.EnvColor),
		BlendColor:  rdp.Normalize(s.BlendColor),
		FogColor:    rdp.Normalize(s.FogColor),
		PrimLODFrac: float32(s.PrimLODFrac) / 255,
		K4:          float32(s.Convert[4]) / 255,
		K5:          float32(s.Convert[5]) / 255,
		FrameCount:  r.frame,
		FrameHeight: float32(s.Output.Height),
	}
	for i, k := range s.Key {
		u.KeyCenter[i] = float32(k.Center) / 255
		u.KeyScale[i] = float32(k.Scale) / 255
	}
	return u
}

// bindTextures imports the texture units the program samples.
func (r *RCP) bindTextures(state *draw.RenderState) error {
	units := [2]bool{
		state.Key.Flags.Has(combiner.FlagTexture0),
		state.Key.Flags.Has(combiner.FlagTexture1),
	}
	linear := r.RDP.OtherMode.TextureFilter().Linear()
	for unit, used := range units {
		if !used {
			continue
		}
		e, err := r.texture(unit)
		if err != nil {
			return err
		}
		tile := r.RDP.TextureTile(unit)
		if err := r.textures.SetSampler(e, r.uploader(), tile.CMS, tile.CMT, linear); err != nil {
			return err
		}
		state.Textures[unit] = draw.TextureBinding{
			Texture: e.Handle,
			Width:   e.Width,
			Height:  e.Height,
			Sampler: texture.Sampler(tile.CMS, tile.CMT, linear),
		}
		state.Tiles[unit] = tile
	}
	return nil
}

// texture returns the decoded texture of a unit. The TMEM mapping is only
// resolved again after a tile or load command touched the unit.
func (r *RCP) texture(unit int) (*texture.Entry, error) {
	if e := r.bound[unit]; e != nil && !r.RDP.TexturesChanged[unit] {
		if cur, ok := r.textures.Peek(e.Key); ok && cur == e {
			return e, nil
		}
	}

	src, err := r.RDP.Source(unit)
	if err != nil {
		return nil, err
	}
	e, ok := r.textures.Lookup(src.Key)
	if !ok {
		texels, err := r.texels(src)
		if err != nil {
			return nil, err
		}
		var palette []byte
		if src.Key.Format == texture.FormatCI {
			if palette, err = r.palette(src); err != nil {
				return nil, err
			}
		}
		e, err = r.textures.Create(src.Key, src.Width, src.Height, texels, palette, r.uploader())
		if err != nil {
			return nil, err
		}
		r.logger.Debug("rcp: texture imported",
			"key", src.Key.String(), "width", src.Width, "height", src.Height, "stride", src.Stride)
	}
	r.bound[unit] = e
	r.RDP.TexturesChanged[unit] = false
	return e, nil
}

// texels gathers the rows of a texture source into one tightly packed
// slice.
func (r *RCP) texels(src rdp.TextureSource) ([]byte, error) {
	size := src.Key.Size
	if src.Stride <= src.Width {
		return r.readPhysical(src.Key.Address, texture.ByteLen(size, src.Width, src.Height))
	}
	row := texture.ByteLen(size, src.Width, 1)
	pitch := texture.ByteLen(size, src.Stride, 1)
	out := make([]byte, 0, row*src.Height)
	for y := 0; y < src.Height; y++ {
		b, err := r.readPhysical(src.Key.Address+uint32(y*pitch), row)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func (r *RCP) palette(src rdp.TextureSource) ([]byte, error) {
	n := texture.PaletteEntries(src.Key.Size)
	raw, err := r.readPhysical(src.Palette, n*2)
	if err != nil {
		return nil, err
	}
	return texture.DecodePalette(raw, n, src.LUT)
}

func (r *RCP) readPhysical(addr uint32, n int) ([]byte, error) {
	b, err := r.mem.Read(addr, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAddressOutOfRange, err)
	}
	return b, nil
}

func (r *RCP) uploader() backend.TextureUploader {
	if r.backend == nil {
		return nil
	}
	return r.backend
}

// vertexData interleaves the three vertices of a triangle as described by
// state.Layout. The returned slice is reused by the next call.
func (r *RCP) vertexData(state *draw.RenderState, p *combiner.Program, idx [3]int) []float32 {
	buf := r.scratch[:0]
	om := r.RDP.OtherMode
	fog := om.UseFog()
	offset := om.TextureFilter() != texture.FilterPoint

	tile := r.RDP.TextureTile(0)
	tw := float32(max(tile.Width(), 1))
	th := float32(max(tile.Height(), 1))

	// LOD is approximated from the distance of the first vertex.
	lod := clamp01((r.RSP.Vertices[idx[0]].Position[3] - 3000) / 3000)

	for _, i := range idx {
		v := &r.RSP.Vertices[i]
		z, w := v.Position[2], v.Position[3]
		if r.opts.depthZeroToOne {
			z = (z + w) / 2
		}
		buf = append(buf, v.Position[0], v.Position[1], z, w)
		buf = append(buf, unorm(v.Color[0]), unorm(v.Color[1]), unorm(v.Color[2]), unorm(v.Color[3]))

		if state.Layout.Textured {
			// U and V are S10.5, the tile origin is 10.2.
			u := (v.U - float32(tile.ULS)*8) / 32
			t := (v.V - float32(tile.ULT)*8) / 32
			if offset {
				u += 0.5
				t += 0.5
			}
			buf = append(buf, u/tw, t/th)
		}

		for j := 0; j < p.Mapping.NumInputs; j++ {
			c := r.input(p.Mapping.Color[j], v, lod)
			buf = append(buf, c[0], c[1], c[2])
			if !state.Layout.InputAlpha {
				continue
			}
			in := p.Mapping.Alpha[j]
			a := r.input(in, v, lod)[3]
			if fog && in == combiner.InputShade {
				// The shade alpha carries the fog factor.
				a = 1
			}
			buf = append(buf, a)
		}
	}
	r.scratch = buf
	return buf
}

// input returns the value of a per-vertex combiner input.
func (r *RCP) input(in combiner.Input, v *rsp.StagingVertex, lod float32) [4]float32 {
	switch in {
	case combiner.InputPrimitive:
		return rdp.Normalize(r.RDP.PrimColor)
	case combiner.InputShade:
		return [4]float32{unorm(v.Color[0]), unorm(v.Color[1]), unorm(v.Color[2]), unorm(v.Color[3])}
	case combiner.InputEnvironment:
		return rdp.Normalize(r.RDP.EnvColor)
	case combiner.InputLODFraction:
		return [4]float32{lod, lod, lod, lod}
	case combiner.InputShadeAlpha:
		a := unorm(v.Color[3])
		return [4]float32{a, a, a, a}
	}
	return [4]float32{}
}

func unorm(v uint8) float32 { return float32(v) / 255 }

func clamp01(v float32) float32 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}
