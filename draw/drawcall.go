package draw

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DrawCall is one batch of triangles sharing a RenderState. Vertices are
// interleaved as described by State.Layout, three per triangle.
//
// A DrawCall is owned by the caller once returned by Accumulator.Take.
type DrawCall struct {
	State    RenderState
	Vertices []float32
}

// VertexCount returns the number of vertices.
func (d *DrawCall) VertexCount() int {
	stride := d.State.Layout.Stride()
	if stride == 0 {
		return 0
	}
	return len(d.Vertices) / stride
}

// Triangles returns the number of triangles.
func (d *DrawCall) Triangles() int { return d.VertexCount() / 3 }

// Vertex returns the floats of vertex i.
func (d *DrawCall) Vertex(i int) []float32 {
	stride := d.State.Layout.Stride()
	return d.Vertices[i*stride : (i+1)*stride]
}

// Bytes serializes the vertex buffer as little-endian float32s, ready for
// upload.
func (d *DrawCall) Bytes() []byte {
	b := make([]byte, 4*len(d.Vertices))
	for i, f := range d.Vertices {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

func (d *DrawCall) String() string {
	return fmt.Sprintf("draw %d tris program %d key %v", d.Triangles(), d.State.Program, d.State.Key)
}
