package rcp

import (
	"errors"
	"testing"

	"github.com/gogpu/rcp/gbi"
)

func TestRunNestedDisplayList(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	img.list(dlAddr, gbi.DisplayList(subAddr), gbi.Tri1(0, 1, 2), gbi.EndDL())
	img.list(subAddr, gbi.Vertex(vtxAddr, 3, 0), gbi.EndDL())
	r, _ := newTestRCP(t, img)

	calls := run(t, r)
	if len(calls) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(calls))
	}
	if got := r.Stats().Instructions; got != 5 {
		t.Errorf("Instructions = %d, want 5", got)
	}
}

func TestRunBranchDoesNotReturn(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	// The triangle after the branch must never execute.
	img.list(dlAddr, gbi.BranchList(subAddr), gbi.Tri1(0, 1, 2), gbi.EndDL())
	img.list(subAddr, gbi.Vertex(vtxAddr, 3, 0), gbi.EndDL())
	r, _ := newTestRCP(t, img)

	if calls := run(t, r); len(calls) != 0 {
		t.Errorf("draw calls = %d, want 0", len(calls))
	}
	if got := r.Stats().Instructions; got != 3 {
		t.Errorf("Instructions = %d, want 3", got)
	}
}

func TestRunSegmentedAddress(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	img.list(dlAddr,
		gbi.SetSegment(6, vtxAddr),
		gbi.Vertex(0x06000000, 3, 0),
		gbi.Tri1(0, 1, 2),
		gbi.EndDL(),
	)
	r, _ := newTestRCP(t, img)

	if calls := run(t, r); len(calls) != 1 {
		t.Errorf("draw calls = %d, want 1", len(calls))
	}
}

func TestRunUnknownOpcode(t *testing.T) {
	img := newTestImage()
	img.list(dlAddr, gbi.Command{W0: 0x12 << 24}, gbi.Command{W0: 0xC2 << 24}, gbi.EndDL())
	r, _ := newTestRCP(t, img)

	run(t, r)
	s := r.Stats()
	if s.UnknownOpcodes != 2 {
		t.Errorf("UnknownOpcodes = %d, want 2", s.UnknownOpcodes)
	}
	if s.Instructions != 3 {
		t.Errorf("Instructions = %d, want 3", s.Instructions)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		build  func(img *testImage)
		start  uint32
		opts   []Option
		want   error
		opcode gbi.Opcode
	}{
		{
			name: "recursion",
			build: func(img *testImage) {
				img.list(dlAddr, gbi.DisplayList(dlAddr))
			},
			opts:   []Option{WithLimits(4, 0)},
			want:   ErrRecursionLimit,
			opcode: gbi.OpDL,
		},
		{
			name: "jump loop",
			build: func(img *testImage) {
				img.list(dlAddr, gbi.BranchList(dlAddr))
			},
			opts: []Option{WithLimits(0, 100)},
			want: ErrInstructionLimit,
		},
		{
			name: "list outside memory",
			build: func(img *testImage) {
				img.list(dlAddr, gbi.DisplayList(ramSize+0x100))
			},
			want: ErrAddressOutOfRange,
		},
		{
			name: "matrix outside memory",
			build: func(img *testImage) {
				img.list(dlAddr, gbi.Matrix(ramSize-8, gbi.MtxLoad|gbi.MtxProjection))
			},
			want:   ErrAddressOutOfRange,
			opcode: gbi.OpMatrix,
		},
		{
			name: "vertices outside memory",
			build: func(img *testImage) {
				img.list(dlAddr, gbi.Vertex(ramSize-16, 4, 0))
			},
			want:   ErrAddressOutOfRange,
			opcode: gbi.OpVertex,
		},
		{
			name: "runs off the end",
			build: func(img *testImage) {
				img.list(ramSize-gbi.CommandSize, gbi.Command{})
			},
			start: ramSize - gbi.CommandSize,
			want:  ErrAddressOutOfRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newTestImage()
			tt.build(img)
			r, _ := newTestRCP(t, img, tt.opts...)

			start := tt.start
			if start == 0 {
				start = dlAddr
			}
			err := r.Run(start)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run() = %v, want %v", err, tt.want)
			}
			var re *RunError
			if !errors.As(err, &re) {
				t.Fatalf("Run() error %T is not *RunError", err)
			}
			if tt.opcode != 0 && re.Opcode != tt.opcode {
				t.Errorf("RunError.Opcode = %v, want %v", re.Opcode, tt.opcode)
			}
		})
	}
}

func TestRunRecursionDepth(t *testing.T) {
	img := newTestImage()
	img.list(dlAddr, gbi.DisplayList(dlAddr))
	r, _ := newTestRCP(t, img, WithLimits(3, 0))

	err := r.Run(dlAddr)
	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("Run() = %v, want *RunError", err)
	}
	if re.Depth != 3 {
		t.Errorf("Depth = %d, want 3", re.Depth)
	}
	if re.Instructions != 4 {
		t.Errorf("Instructions = %d, want 4", re.Instructions)
	}
}

func TestRunInstructionBudget(t *testing.T) {
	img := newTestImage()
	img.list(dlAddr, gbi.BranchList(dlAddr))
	r, _ := newTestRCP(t, img, WithLimits(0, 50))

	if err := r.Run(dlAddr); !errors.Is(err, ErrInstructionLimit) {
		t.Fatalf("Run() = %v, want ErrInstructionLimit", err)
	}
	if got := r.Stats().Instructions; got != 50 {
		t.Errorf("Instructions = %d, want 50", got)
	}
}

func TestRunErrorKeepsDrawCalls(t *testing.T) {
	img := newTestImage()
	img.vertices(vtxAddr, testTriangle...)
	img.list(dlAddr,
		gbi.Vertex(vtxAddr, 3, 0),
		gbi.Tri1(0, 1, 2),
		gbi.DisplayList(ramSize+0x100),
	)
	r, _ := newTestRCP(t, img)

	if err := r.Run(dlAddr); !errors.Is(err, ErrAddressOutOfRange) {
		t.Fatalf("Run() = %v, want ErrAddressOutOfRange", err)
	}
	if calls := r.TakeDrawCalls(); len(calls) != 1 {
		t.Errorf("draw calls after error = %d, want 1", len(calls))
	}
}

func TestRunResetsState(t *testing.T) {
	img := newTestImage()
	img.list(dlAddr, gbi.SetGeometryMode(0, gbi.CullBoth), gbi.EndDL())
	img.list(subAddr, gbi.EndDL())
	r, _ := newTestRCP(t, img)

	run(t, r)
	if r.RSP.GeometryMode&gbi.CullBoth == 0 {
		t.Fatal("geometry mode not applied")
	}
	if err := r.Run(subAddr); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if r.RSP.GeometryMode != 0 {
		t.Errorf("GeometryMode = %#x after new Run, want 0", r.RSP.GeometryMode)
	}
}
