package rcp

import (
	"fmt"

	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/gbi"
	"github.com/gogpu/rcp/rdp"
	"github.com/gogpu/rcp/rsp"
	"github.com/gogpu/rcp/texture"
)

// Vertex-table slots past the G_VTX range hold rectangle corners.
const (
	rectUL = rsp.MaxVertices + iota
	rectLL
	rectLR
	rectUR
)

// texRect is a decoded TEXRECT. Screen coordinates are 10.2, s and t are
// S10.5 and the steps S5.10.
type texRect struct {
	ulx, uly, lrx, lry int32
	tile               uint8
	s, t               int16
	dsdx, dtdy         int16
	flip               bool
}

// fillRect is a decoded FILLRECT in 10.2 screen coordinates.
type fillRect struct {
	ulx, uly, lrx, lry int32
}

// halfWords reads the n RDPHALF commands trailing a rectangle.
func halfWords(cur *gbi.Cursor, n int) ([]gbi.Command, error) {
	out := make([]gbi.Command, n)
	for i := range out {
		cmd, err := cur.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAddressOutOfRange, err)
		}
		out[i] = cmd
	}
	return out, nil
}

func opTexRect(r *RCP, cur *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	half, err := halfWords(cur, 2)
	if err != nil {
		return gbi.Result{}, err
	}
	tr := texRect{
		lrx:  int32(gbi.Field(cmd.W0, 12, 12)),
		lry:  int32(gbi.Field(cmd.W0, 0, 12)),
		tile: uint8(gbi.Field(cmd.W1, 24, 3)),
		ulx:  int32(gbi.Field(cmd.W1, 12, 12)),
		uly:  int32(gbi.Field(cmd.W1, 0, 12)),
		s:    int16(half[0].W1 >> 16),
		t:    int16(half[0].W1),
		dsdx: int16(half[1].W1 >> 16),
		dtdy: int16(half[1].W1),
		flip: cmd.Opcode() == gbi.OpTexRectFlip,
	}
	return gbi.Next(), r.texRect(tr)
}

// opTexRectWide decodes the extended-coordinate TEXRECT, where every
// coordinate is a signed 24-bit value in its own word.
func opTexRectWide(r *RCP, cur *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	half, err := halfWords(cur, 2)
	if err != nil {
		return gbi.Result{}, err
	}
	tr := texRect{
		lrx:  gbi.SignExtend(cmd.W0, 24),
		lry:  gbi.SignExtend(cmd.W1, 24),
		tile: uint8(gbi.Field(cmd.W1, 24, 3)),
		ulx:  gbi.SignExtend(half[0].W0, 24),
		s:    int16(half[0].W1 >> 16),
		t:    int16(half[0].W1),
		uly:  gbi.SignExtend(half[1].W0, 24),
		dsdx: int16(half[1].W1 >> 16),
		dtdy: int16(half[1].W1),
		flip: cmd.Opcode() == gbi.OpTexRectFlip,
	}
	return gbi.Next(), r.texRect(tr)
}

func opFillRect(r *RCP, _ *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	return gbi.Next(), r.fillRect(fillRect{
		ulx: int32(gbi.Field(cmd.W1, 12, 12)),
		uly: int32(gbi.Field(cmd.W1, 0, 12)),
		lrx: int32(gbi.Field(cmd.W0, 12, 12)),
		lry: int32(gbi.Field(cmd.W0, 0, 12)),
	})
}

func opFillRectWide(r *RCP, cur *gbi.Cursor, cmd gbi.Command) (gbi.Result, error) {
	half, err := halfWords(cur, 1)
	if err != nil {
		return gbi.Result{}, err
	}
	return gbi.Next(), r.fillRect(fillRect{
		ulx: gbi.SignExtend(half[0].W0, 24),
		uly: gbi.SignExtend(half[0].W1, 24),
		lrx: gbi.SignExtend(cmd.W0, 24),
		lry: gbi.SignExtend(cmd.W1, 24),
	})
}

func (r *RCP) texRect(tr texRect) error {
	s := r.RDP
	savedCombine := s.Combine
	savedTile := s.Tile
	defer func() {
		s.Combine = savedCombine
		if s.Tile != savedTile {
			s.Tile = savedTile
			s.TexturesChanged = [2]bool{true, true}
		}
	}()

	if int(tr.tile) != s.Tile {
		s.Tile = int(tr.tile)
		s.TexturesChanged = [2]bool{true, true}
	}

	dsdx, dtdy := int32(tr.dsdx), int32(tr.dtdy)
	if s.OtherMode.CycleType() == rdp.CycleCopy {
		// Copy mode steps four texels per pixel and bypasses the combiner.
		dsdx >>= 2
		s.Combine = combiner.Textured
		tr.lrx += 4
		tr.lry += 4
	}
	if tr.flip {
		dsdx, dtdy = -dsdx, -dtdy
	}

	width, height := tr.lrx-tr.ulx, tr.lry-tr.uly
	if tr.flip {
		width, height = height, width
	}
	uls, ult := int32(tr.s), int32(tr.t)
	lrs := (uls<<7 + dsdx*width) >> 7
	lrt := (ult<<7 + dtdy*height) >> 7

	v := &r.RSP.Vertices
	v[rectUL].U, v[rectUL].V = float32(uls), float32(ult)
	v[rectLR].U, v[rectLR].V = float32(lrs), float32(lrt)
	if tr.flip {
		v[rectLL].U, v[rectLL].V = float32(lrs), float32(ult)
		v[rectUR].U, v[rectUR].V = float32(uls), float32(lrt)
	} else {
		v[rectLL].U, v[rectLL].V = float32(uls), float32(lrt)
		v[rectUR].U, v[rectUR].V = float32(lrs), float32(ult)
	}
	return r.drawRectangle(tr.ulx, tr.uly, tr.lrx, tr.lry)
}

func (r *RCP) fillRect(fr fillRect) error {
	s := r.RDP
	if s.DepthAliased() {
		// Depth clears have no equivalent in the draw stream.
		return nil
	}
	switch s.OtherMode.CycleType() {
	case rdp.CycleCopy, rdp.CycleFill:
		fr.lrx += 4
		fr.lry += 4
	}

	c := s.FillColor
	for i := rectUL; i <= rectUR; i++ {
		r.RSP.Vertices[i].Color = [4]uint8{c.R, c.G, c.B, c.A}
	}

	saved := s.Combine
	s.Combine = combiner.Shaded
	err := r.drawRectangle(fr.ulx, fr.uly, fr.lrx, fr.lry)
	s.Combine = saved
	return err
}

// drawRectangle emits a screen-space quad from the rectangle slots. The
// quad ignores the viewport and geometry mode.
func (r *RCP) drawRectangle(ulx, uly, lrx, lry int32) error {
	s := r.RDP
	savedMode := s.OtherMode
	savedViewport := s.Viewport
	savedGeometry := r.RSP.GeometryMode
	defer func() {
		s.OtherMode = savedMode
		s.Viewport = savedViewport
		r.RSP.GeometryMode = savedGeometry
	}()

	if s.OtherMode.CycleType() == rdp.CycleCopy {
		s.OtherMode.Merge(rdp.ShiftTextFilt+32, 2, uint64(texture.FilterPoint)<<(rdp.ShiftTextFilt+32))
	}
	s.Viewport = s.Output.Full()
	r.RSP.GeometryMode = 0

	x0, x1 := s.Output.AdjustX(screenX(ulx)), s.Output.AdjustX(screenX(lrx))
	y0, y1 := screenY(uly), screenY(lry)
	corners := [4][2]float32{
		rectUL - rectUL: {x0, y0},
		rectLL - rectUL: {x0, y1},
		rectLR - rectUL: {x1, y1},
		rectUR - rectUL: {x1, y0},
	}
	for i, c := range corners {
		v := &r.RSP.Vertices[rectUL+i]
		v.Position[0], v.Position[1] = c[0], c[1]
		v.Position[2], v.Position[3] = -1, 1
		v.ClipReject = 0
	}

	if err := r.triangle(rectUL, rectLL, rectUR); err != nil {
		return err
	}
	return r.triangle(rectLL, rectLR, rectUR)
}

// screenX maps a 10.2 screen x to clip space.
func screenX(v int32) float32 { return float32(v)/(4*rdp.ScreenWidth/2) - 1 }

// screenY maps a 10.2 screen y to clip space.
func screenY(v int32) float32 { return -(float32(v) / (4 * rdp.ScreenHeight / 2)) + 1 }
