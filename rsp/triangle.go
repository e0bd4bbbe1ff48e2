package rsp

import "github.com/gogpu/rcp/gbi"

// Cull reports whether the triangle formed by vertex-table entries a, b, c
// must be discarded. Out-of-range indices are always culled.
//
// A triangle is rejected when all three vertices lie outside the same
// frustum plane, or when its screen-space winding matches the active cull
// mode. Counter-clockwise triangles have a negative signed area.
func (s *State) Cull(a, b, c int) bool {
	if !validIndex(a) || !validIndex(b) || !validIndex(c) {
		return true
	}
	v1, v2, v3 := &s.Vertices[a], &s.Vertices[b], &s.Vertices[c]

	if v1.ClipReject&v2.ClipReject&v3.ClipReject != 0 {
		return true
	}

	mode := s.GeometryMode & gbi.CullBoth
	if mode == 0 {
		return false
	}
	if mode == gbi.CullBoth {
		return true
	}

	cross := SignedArea(v1.Position, v2.Position, v3.Position)
	switch mode {
	case gbi.CullFront:
		return cross <= 0
	case gbi.CullBack:
		return cross >= 0
	}
	return false
}

// SignedArea returns the cross product of the projected triangle edges
// (v1-v2) and (v3-v2). When some but not all vertices lie behind the eye
// (w < 0) the sign is flipped to undo the projection's mirroring.
func SignedArea(v1, v2, v3 [4]float32) float32 {
	dx1 := v1[0]/v1[3] - v2[0]/v2[3]
	dy1 := v1[1]/v1[3] - v2[1]/v2[3]
	dx2 := v3[0]/v3[3] - v2[0]/v2[3]
	dy2 := v3[1]/v3[3] - v2[1]/v2[3]
	cross := dx1*dy2 - dy1*dx2

	behind := 0
	for _, w := range [3]float32{v1[3], v2[3], v3[3]} {
		if w < 0 {
			behind++
		}
	}
	if behind == 1 || behind == 2 {
		cross = -cross
	}
	return cross
}

func validIndex(i int) bool { return i >= 0 && i < VertexTableSize }
