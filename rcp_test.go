package rcp

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/rcp/combiner"
	"github.com/gogpu/rcp/draw"
	"github.com/gogpu/rcp/gbi"
	"github.com/gogpu/rcp/rsp"
)

// Layout of the test RAM image.
const (
	dlAddr  = 0x1000
	subAddr = 0x2000
	vtxAddr = 0x3000
	texAddr = 0x4000
	ramSize = 0x8000
)

// testImage is a small big-endian RAM image.
type testImage struct {
	ram   []byte
	order binary.ByteOrder
}

func newTestImage() *testImage {
	return &testImage{ram: make([]byte, ramSize), order: binary.BigEndian}
}

func (m *testImage) put(addr uint32, b []byte) { copy(m.ram[addr:], b) }

// list writes commands at addr.
func (m *testImage) list(addr uint32, cmds ...gbi.Command) {
	m.put(addr, gbi.Encode(m.order, cmds...))
}

func (m *testImage) vertices(addr uint32, vs ...rsp.Vertex) {
	for i, v := range vs {
		m.put(addr+uint32(i*gbi.VertexSize), v.Encode(m.order))
	}
}

func (m *testImage) memory() *gbi.FlatMemory { return gbi.NewFlatMemory(0, m.ram, m.order) }

// testTriangle has counter-clockwise winding and lies inside the clip
// volume under identity matrices.
var testTriangle = []rsp.Vertex{
	{Position: [3]int16{0, 0, 0}, Color: [4]uint8{255, 0, 0, 255}},
	{Position: [3]int16{1, 0, 0}, Color: [4]uint8{0, 255, 0, 255}},
	{Position: [3]int16{0, 1, 0}, Color: [4]uint8{0, 0, 255, 255}},
	{Position: [3]int16{1, 1, 0}, Color: [4]uint8{255, 255, 255, 255}},
}

// flatCombiner returns (0-0)*0+D in both cycles.
func flatCombiner(color, alpha uint8) combiner.Params {
	c := combiner.Cycle{
		Color: combiner.Equation{combiner.MuxZeroAB, combiner.MuxZeroAB, combiner.MuxZeroC, color},
		Alpha: combiner.Equation{combiner.AMuxZero, combiner.AMuxZero, combiner.AMuxZero, alpha},
	}
	return combiner.Params{Cycles: [2]combiner.Cycle{c, c}}
}

func newTestRCP(t testing.TB, img *testImage, opts ...Option) (*RCP, *backend.Recorder) {
	t.Helper()
	rec := backend.NewRecorder()
	r, err := New(img.memory(), rec, opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return r, rec
}

// run executes the list at dlAddr and returns the draw calls.
func run(t *testing.T, r *RCP) []draw.DrawCall {
	t.Helper()
	if err := r.Run(dlAddr); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	return r.TakeDrawCalls()
}

func TestNewNilMemory(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("New(nil) = nil error, want error")
	}
}

func TestNewUnknownProfile(t *testing.T) {
	_, err := New(newTestImage().memory(), nil, WithProfile("f3d-none"))
	if !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("New() error = %v, want ErrUnknownProfile", err)
	}
}

func TestTriangleDrawCall(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	img.list(dlAddr,
		combiner.Shaded.Command(),
		gbi.Vertex(vtxAddr, 3, 0),
		gbi.Tri1(0, 1, 2),
		gbi.EndDL(),
	)
	r, rec := newTestRCP(t, img)

	calls := run(t, r)
	if len(calls) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(calls))
	}
	dc := calls[0]
	if got := dc.Triangles(); got != 1 {
		t.Errorf("Triangles() = %d, want 1", got)
	}
	if dc.State.Key.Combine != combiner.Shaded.Packed() {
		t.Errorf("Key.Combine = %#x, want %#x", dc.State.Key.Combine, combiner.Shaded.Packed())
	}
	if dc.State.Key.Textured() {
		t.Error("Key.Textured() = true for a shaded combiner")
	}
	if dc.State.Program == 0 {
		t.Error("Program handle = 0, want compiled program")
	}
	if got := rec.Stats().Programs; got != 1 {
		t.Errorf("compiled programs = %d, want 1", got)
	}

	want := []float32{0, 0, 0.5, 1, 1, 0, 0, 1}
	for i, w := range want {
		if dc.Vertices[i] != w {
			t.Errorf("Vertices[%d] = %v, want %v", i, dc.Vertices[i], w)
		}
	}
	if got, want := len(dc.Vertices), 3*dc.State.Layout.Stride(); got != want {
		t.Errorf("len(Vertices) = %d, want %d", got, want)
	}
}

func TestNilBackend(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	img.list(dlAddr, gbi.Vertex(vtxAddr, 3, 0), gbi.Tri1(0, 1, 2), gbi.EndDL())

	r, err := New(img.memory(), nil)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	calls := run(t, r)
	if len(calls) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(calls))
	}
	if calls[0].State.Program != 0 {
		t.Errorf("Program = %d, want 0 without backend", calls[0].State.Program)
	}
}

func TestTri2SharesDrawCall(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	img.list(dlAddr, gbi.Vertex(vtxAddr, 4, 0), gbi.Tri2(0, 1, 2, 1, 3, 2), gbi.EndDL())
	r, _ := newTestRCP(t, img)

	calls := run(t, r)
	if len(calls) != 1 || calls[0].Triangles() != 2 {
		t.Fatalf("got %d draw calls, want 1 with 2 triangles", len(calls))
	}
}

func TestBatching(t *testing.T) {
	tests := []struct {
		name  string
		mid   []gbi.Command
		opts  []Option
		calls int
	}{
		{"same state", nil, nil, 1},
		{"restored state", []gbi.Command{
			gbi.SetColor(gbi.OpSetEnvColor, 1, 2, 3, 4),
			gbi.SetColor(gbi.OpSetEnvColor, 0, 0, 0, 0),
		}, nil, 1},
		{"changed uniform", []gbi.Command{gbi.SetColor(gbi.OpSetEnvColor, 1, 2, 3, 4)}, nil, 2},
		{"changed combiner", []gbi.Command{flatCombiner(combiner.MuxPrimitive, combiner.AMuxPrimitive).Command()}, nil, 2},
		{"batch cap", nil, []Option{WithMaxBatch(1)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newTestImage()
			img.vertices(vtxAddr, testTriangle...)
			cmds := []gbi.Command{gbi.Vertex(vtxAddr, 4, 0), gbi.Tri1(0, 1, 2)}
			cmds = append(cmds, tt.mid...)
			cmds = append(cmds, gbi.Tri1(1, 3, 2), gbi.EndDL())
			img.list(dlAddr, cmds...)

			r, _ := newTestRCP(t, img, tt.opts...)
			if got := len(run(t, r)); got != tt.calls {
				t.Errorf("draw calls = %d, want %d", got, tt.calls)
			}
		})
	}
}

func TestCulling(t *testing.T) {
	tests := []struct {
		name   string
		mode   gbi.GeometryMode
		culled int
	}{
		{"none", 0, 0},
		{"back", gbi.CullBack, 0},
		{"front", gbi.CullFront, 1},
		{"both", gbi.CullBoth, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newTestImage()
			img.vertices(vtxAddr, testTriangle...)
			img.list(dlAddr,
				gbi.SetGeometryMode(0, tt.mode),
				gbi.Vertex(vtxAddr, 3, 0),
				gbi.Tri1(0, 1, 2),
				gbi.EndDL(),
			)
			r, _ := newTestRCP(t, img)
			calls := run(t, r)

			s := r.Stats()
			if s.Culled != tt.culled {
				t.Errorf("Culled = %d, want %d", s.Culled, tt.culled)
			}
			if want := 1 - tt.culled; len(calls) != want {
				t.Errorf("draw calls = %d, want %d", len(calls), want)
			}
		})
	}
}

func TestDepthRange(t *testing.T) {
	for _, zeroToOne := range []bool{true, false} {
		img := newTestImage()
		img.vertices(vtxAddr, testTriangle...)
		img.list(dlAddr, gbi.Vertex(vtxAddr, 3, 0), gbi.Tri1(0, 1, 2), gbi.EndDL())
		r, _ := newTestRCP(t, img, WithDepthZeroToOne(zeroToOne))

		calls := run(t, r)
		want := float32(0)
		if zeroToOne {
			want = 0.5
		}
		if got := calls[0].Vertices[2]; got != want {
			t.Errorf("WithDepthZeroToOne(%v): z = %v, want %v", zeroToOne, got, want)
		}
	}
}

func TestResetAdvancesFrame(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	img.list(dlAddr, gbi.Vertex(vtxAddr, 3, 0), gbi.Tri1(0, 1, 2), gbi.EndDL())
	r, _ := newTestRCP(t, img)

	first := run(t, r)
	r.Reset()
	second := run(t, r)

	if got := first[0].State.Uniforms.FrameCount; got != 0 {
		t.Errorf("first frame count = %d, want 0", got)
	}
	if got := second[0].State.Uniforms.FrameCount; got != 1 {
		t.Errorf("second frame count = %d, want 1", got)
	}
	if got := r.Stats().Triangles; got != 1 {
		t.Errorf("Triangles after Reset = %d, want 1", got)
	}
}

func TestProgramCacheAcrossRuns(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	img.list(dlAddr, gbi.Vertex(vtxAddr, 3, 0), gbi.Tri1(0, 1, 2), gbi.EndDL())
	r, rec := newTestRCP(t, img)

	run(t, r)
	run(t, r)
	if got := rec.Stats().Programs; got != 1 {
		t.Errorf("compiled programs = %d, want 1", got)
	}
	s := r.Stats()
	if s.Programs != 1 || s.ProgramMisses != 1 {
		t.Errorf("Programs = %d, misses = %d, want 1, 1", s.Programs, s.ProgramMisses)
	}

	r.PurgeCaches()
	run(t, r)
	if got := rec.Stats().Programs; got != 2 {
		t.Errorf("compiled programs after purge = %d, want 2", got)
	}
}

func BenchmarkRunTriangles(b *testing.B) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	cmds := []gbi.Command{gbi.Vertex(vtxAddr, 4, 0)}
	for i := 0; i < 64; i++ {
		cmds = append(cmds, gbi.Tri2(0, 1, 2, 1, 3, 2))
	}
	img.list(dlAddr, append(cmds, gbi.EndDL())...)
	r, _ := newTestRCP(b, img)

	b.ReportAllocs()
	for b.Loop() {
		if err := r.Run(dlAddr); err != nil {
			b.Fatal(err)
		}
		r.TakeDrawCalls()
	}
}
