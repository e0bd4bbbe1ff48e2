package rsp

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/rcp/gbi"
)

// Vertex is the 16-byte model-space vertex read by G_VTX.
type Vertex struct {
	Position [3]int16
	Flag     uint16
	TexCoord [2]int16
	// Color is RGBA when lighting is off, or a signed normal plus alpha
	// when lighting is on.
	Color [4]uint8
}

// DecodeVertex reads one vertex.
func DecodeVertex(b []byte, order binary.ByteOrder) Vertex {
	return Vertex{
		Position: [3]int16{
			int16(order.Uint16(b[0:])),
			int16(order.Uint16(b[2:])),
			int16(order.Uint16(b[4:])),
		},
		Flag:     order.Uint16(b[6:]),
		TexCoord: [2]int16{int16(order.Uint16(b[8:])), int16(order.Uint16(b[10:]))},
		Color:    [4]uint8{b[12], b[13], b[14], b[15]},
	}
}

// Encode writes the vertex in the given byte order.
func (v Vertex) Encode(order binary.ByteOrder) []byte {
	b := make([]byte, gbi.VertexSize)
	order.PutUint16(b[0:], uint16(v.Position[0]))
	order.PutUint16(b[2:], uint16(v.Position[1]))
	order.PutUint16(b[4:], uint16(v.Position[2]))
	order.PutUint16(b[6:], v.Flag)
	order.PutUint16(b[8:], uint16(v.TexCoord[0]))
	order.PutUint16(b[10:], uint16(v.TexCoord[1]))
	copy(b[12:], v.Color[:])
	return b
}

// Normal interprets the color bytes as a signed normal.
func (v Vertex) Normal() [3]int8 {
	return [3]int8{int8(v.Color[0]), int8(v.Color[1]), int8(v.Color[2])}
}

// Clip-rejection bits, one per frustum plane.
const (
	ClipNegX uint8 = 1 << iota
	ClipPosX
	ClipNegY
	ClipPosY
	ClipNegZ
	ClipPosZ
)

// VertexParams carries the RDP-side inputs of a vertex load.
type VertexParams struct {
	ScaleS, ScaleT uint16
	// AspectScale multiplies clip-space x to correct for non-4:3 output.
	AspectScale float32
}

// LoadVertices transforms vertices into the table starting at index start.
// Entries that would land outside the addressable table are dropped; the
// number of vertices written is returned.
func (s *State) LoadVertices(vertices []Vertex, start int, p VertexParams) int {
	if start < 0 || start >= MaxVertices {
		return 0
	}
	n := len(vertices)
	if start+n > MaxVertices {
		n = MaxVertices - start
	}
	for i := 0; i < n; i++ {
		s.transformVertex(&s.Vertices[start+i], vertices[i], p)
	}
	return n
}

func (s *State) transformVertex(dst *StagingVertex, v Vertex, p VertexParams) {
	pos := s.mvp.Transform(float32(v.Position[0]), float32(v.Position[1]), float32(v.Position[2]))
	if p.AspectScale != 0 {
		pos[0] *= p.AspectScale
	}

	u := int16((int32(v.TexCoord[0]) * int32(p.ScaleS)) >> 16)
	t := int16((int32(v.TexCoord[1]) * int32(p.ScaleT)) >> 16)

	if s.GeometryMode&gbi.Lighting != 0 {
		s.updateLightCoefficients()
		normal := v.Normal()
		nx, ny, nz := float32(normal[0]), float32(normal[1]), float32(normal[2])

		ambient := s.Lights[s.NumLights-1].Color
		r, g, b := float32(ambient[0]), float32(ambient[1]), float32(ambient[2])
		for i := 0; i < s.NumLights-1; i++ {
			c := s.lightCoeffs[i]
			intensity := (nx*c[0] + ny*c[1] + nz*c[2]) / 127
			if intensity > 0 {
				col := s.Lights[i].Color
				r += intensity * float32(col[0])
				g += intensity * float32(col[1])
				b += intensity * float32(col[2])
			}
		}
		dst.Color[0] = clampChannel(r)
		dst.Color[1] = clampChannel(g)
		dst.Color[2] = clampChannel(b)

		if s.GeometryMode&gbi.TextureGen != 0 {
			x, y := s.lookAtCoeffs[0], s.lookAtCoeffs[1]
			dotX := nx*x[0] + ny*x[1] + nz*x[2]
			dotY := nx*y[0] + ny*y[1] + nz*y[2]
			u = int16((dotX/127 + 1) / 4 * float32(p.ScaleS))
			t = int16((dotY/127 + 1) / 4 * float32(p.ScaleT))
		}
	} else {
		dst.Color[0] = v.Color[0]
		dst.Color[1] = v.Color[1]
		dst.Color[2] = v.Color[2]
	}

	dst.U = float32(u)
	dst.V = float32(t)
	dst.ClipReject = ClipMask(pos)
	dst.Position = pos

	if s.GeometryMode&gbi.Fog != 0 {
		dst.Color[3] = s.fogFactor(pos[2], pos[3])
	} else {
		dst.Color[3] = v.Color[3]
	}
}

// ClipMask returns the clip-rejection bits for a clip-space position.
func ClipMask(pos [4]float32) uint8 {
	x, y, z, w := pos[0], pos[1], pos[2], pos[3]
	var mask uint8
	if x < -w {
		mask |= ClipNegX
	}
	if x > w {
		mask |= ClipPosX
	}
	if y < -w {
		mask |= ClipNegY
	}
	if y > w {
		mask |= ClipPosY
	}
	if z < -w {
		mask |= ClipNegZ
	}
	if z > w {
		mask |= ClipPosZ
	}
	return mask
}

func (s *State) fogFactor(z, w float32) uint8 {
	if float32(math.Abs(float64(w))) < 0.001 {
		w = 0.001
	}
	winv := 1 / w
	if winv < 0 {
		winv = 32767
	}
	fog := z*winv*float32(s.FogMultiplier) + float32(s.FogOffset)
	if fog < 0 {
		fog = 0
	}
	if fog > 255 {
		fog = 255
	}
	return uint8(fog)
}

func clampChannel(v float32) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
