package rcp

import (
	"github.com/gogpu/rcp/gbi"
	"github.com/gogpu/rcp/rdp"
	"github.com/gogpu/rcp/rsp"
)

// RSP command handlers.

func opNoop(*RCP, *gbi.Cursor, gbi.Command) (gbi.Result, error) { return gbi.Next(), nil }

func opEndDL(*RCP, *gbi.Cursor, gbi.Command) (gbi.Result, error) { return gbi.End(), nil }

func opDisplayList(_ *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	if gbi.Field(cmd.W0, 16, 1) == 0 {
		return gbi.Call(cmd.W1), nil
	}
	return gbi.Jump(cmd.W1), nil
}

func opMatrix(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	// The push bit is stored inverted.
	params := uint8(gbi.Field(cmd.W0, 0, 8)) ^ gbi.MtxPush
	b, err := r.read(cmd.W1, gbi.MatrixSize)
	if err != nil {
		return gbi.Result{}, err
	}
	r.RSP.ApplyMatrix(rsp.DecodeFixedPoint(b, r.mem.ByteOrder()), params)
	return gbi.Next(), nil
}

func opPopMatrix(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	r.RSP.PopMatrix(int(cmd.W1 / gbi.MatrixSize))
	return gbi.Next(), nil
}

func opGeometryMode(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	keep := gbi.GeometryMode(gbi.Field(cmd.W0, 0, 24))
	r.RSP.GeometryMode = r.RSP.GeometryMode&keep | gbi.GeometryMode(cmd.W1)
	return gbi.Next(), nil
}

func opMoveWord(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	index := uint8(gbi.Field(cmd.W0, 16, 8))
	offset := gbi.Field(cmd.W0, 0, 16)

	switch index {
	case gbi.MWNumLight:
		r.RSP.SetNumLights(int(cmd.W1/24) + 1)
	case gbi.MWFog:
		r.RSP.FogMultiplier = int16(cmd.W1 >> 16)
		r.RSP.FogOffset = int16(cmd.W1)
	case gbi.MWSegment:
		if s, ok := r.mem.(gbi.SegmentSetter); ok {
			s.SetSegment(int(offset/4), cmd.W1)
		}
	default:
		r.logger.Debug("rcp: moveword ignored", "index", index, "offset", offset)
	}
	return gbi.Next(), nil
}

func opMoveMem(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	index := uint8(gbi.Field(cmd.W0, 0, 8))
	offset := int(gbi.Field(cmd.W0, 8, 8)) * 8

	switch index {
	case gbi.MVViewport:
		b, err := r.read(cmd.W1, gbi.ViewportSize)
		if err != nil {
			return gbi.Result{}, err
		}
		r.RDP.SetViewport(rdp.DecodeViewport(b, r.mem.ByteOrder()))
	case gbi.MVLight:
		b, err := r.read(cmd.W1, gbi.LightSize)
		if err != nil {
			return gbi.Result{}, err
		}
		l := rsp.DecodeLight(b)
		switch offset {
		case gbi.MVOLookAtX:
			r.RSP.SetLookAt(0, l)
		case gbi.MVOLookAtY:
			r.RSP.SetLookAt(1, l)
		default:
			if i := offset/24 - 2; !r.RSP.SetLight(i, l) {
				r.logger.Warn("rcp: light index out of range", "index", i)
			}
		}
	default:
		r.logger.Debug("rcp: movemem ignored", "index", index, "offset", offset)
	}
	return gbi.Next(), nil
}

func opTexture(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	t := TextureState{
		On:     gbi.Field(cmd.W0, 1, 7) != 0,
		Tile:   uint8(gbi.Field(cmd.W0, 8, 3)),
		Level:  uint8(gbi.Field(cmd.W0, 11, 3)),
		ScaleS: uint16(gbi.Field(cmd.W1, 16, 16)),
		ScaleT: uint16(gbi.Field(cmd.W1, 0, 16)),
	}
	if int(t.Tile) != r.RDP.Tile {
		r.RDP.TexturesChanged = [2]bool{true, true}
	}
	r.RDP.Tile = int(t.Tile)
	r.Texture = t
	return gbi.Next(), nil
}

func opVertex(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	n := int(gbi.Field(cmd.W0, 12, 8))
	start := int(gbi.Field(cmd.W0, 1, 7)) - n
	if n == 0 {
		return gbi.Next(), nil
	}
	if start < 0 || n > rsp.MaxVertices {
		r.logger.Warn("rcp: vertex load out of range", "start", start, "count", n)
		return gbi.Next(), nil
	}

	b, err := r.read(cmd.W1, n*gbi.VertexSize)
	if err != nil {
		return gbi.Result{}, err
	}
	order := r.mem.ByteOrder()
	for i := 0; i < n; i++ {
		r.vertices[i] = rsp.DecodeVertex(b[i*gbi.VertexSize:], order)
	}

	p := rsp.VertexParams{
		ScaleS:      r.Texture.ScaleS,
		ScaleT:      r.Texture.ScaleT,
		AspectScale: r.RDP.Output.AdjustX(1),
	}
	if got := r.RSP.LoadVertices(r.vertices[:n], start, p); got < n {
		r.logger.Warn("rcp: vertex load clamped", "start", start, "count", n, "loaded", got)
	}
	return gbi.Next(), nil
}

func opTri1(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	a, b, c := triIndices(cmd.W0)
	return gbi.Next(), r.triangle(a, b, c)
}

func opTri2(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	a, b, c := triIndices(cmd.W0)
	if err := r.triangle(a, b, c); err != nil {
		return gbi.Result{}, err
	}
	a, b, c = triIndices(cmd.W1)
	return gbi.Next(), r.triangle(a, b, c)
}

// triIndices decodes three vertex-table indices stored doubled.
func triIndices(w uint32) (a, b, c int) {
	return int(gbi.Field(w, 16, 8) / 2), int(gbi.Field(w, 8, 8) / 2), int(gbi.Field(w, 0, 8) / 2)
}
