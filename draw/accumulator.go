package draw

import (
	"errors"
	"fmt"
)

// DefaultMaxTriangles is the batch size after which an open draw call is
// closed even if the state did not change.
const DefaultMaxTriangles = 256

// ErrVertexData is returned when a triangle's data does not match its
// layout.
var ErrVertexData = errors.New("draw: vertex data does not match layout")

// FlushReason tells why Add closed the open batch.
type FlushReason uint8

const (
	// FlushNone means the triangle joined the open batch.
	FlushNone FlushReason = iota
	// FlushState means the render state differed from the open batch.
	FlushState
	// FlushFull means the open batch reached the triangle cap.
	FlushFull
)

func (r FlushReason) String() string {
	switch r {
	case FlushNone:
		return "none"
	case FlushState:
		return "state changed"
	case FlushFull:
		return "batch full"
	default:
		return fmt.Sprintf("FlushReason(%d)", uint8(r))
	}
}

// Stats counts what an accumulator produced since the last Reset.
type Stats struct {
	DrawCalls int
	Triangles int
	Flushes   [3]int // by FlushReason
}

// Accumulator batches triangles into draw calls. A new draw call is only
// started when a triangle's render state differs from the open batch or
// the batch is full; state-setting commands alone never split a batch.
//
// Accumulator is not safe for concurrent use.
type Accumulator struct {
	max int

	open     bool
	state    RenderState
	vertices []float32
	count    int

	calls []DrawCall
	stats Stats
}

// NewAccumulator creates an accumulator closing batches at maxTriangles.
// A non-positive value selects DefaultMaxTriangles.
func NewAccumulator(maxTriangles int) *Accumulator {
	if maxTriangles <= 0 {
		maxTriangles = DefaultMaxTriangles
	}
	return &Accumulator{max: maxTriangles}
}

// Add appends one triangle. tri holds three vertices laid out per
// state.Layout. The returned reason reports whether the previous batch was
// closed first.
func (a *Accumulator) Add(state *RenderState, tri []float32) (FlushReason, error) {
	if want := 3 * state.Layout.Stride(); len(tri) != want {
		return FlushNone, fmt.Errorf("%w: %d floats, want %d", ErrVertexData, len(tri), want)
	}

	reason := FlushNone
	switch {
	case a.open && a.state != *state:
		reason = FlushState
	case a.open && a.count >= a.max:
		reason = FlushFull
	}
	if reason != FlushNone {
		a.Flush()
		a.stats.Flushes[reason]++
	}

	if !a.open {
		a.open = true
		a.state = *state
		a.vertices = make([]float32, 0, len(tri)*min(a.max, 16))
	}
	a.vertices = append(a.vertices, tri...)
	a.count++
	a.stats.Triangles++
	return reason, nil
}

// Flush closes the open batch. It is a no-op when nothing is pending.
func (a *Accumulator) Flush() {
	if !a.open {
		return
	}
	if a.count > 0 {
		a.calls = append(a.calls, DrawCall{State: a.state, Vertices: a.vertices})
		a.stats.DrawCalls++
	}
	a.open = false
	a.state = RenderState{}
	a.vertices = nil
	a.count = 0
}

// Pending returns the number of triangles in the open batch.
func (a *Accumulator) Pending() int { return a.count }

// Len returns the number of closed draw calls waiting to be taken.
func (a *Accumulator) Len() int { return len(a.calls) }

// Take flushes and returns every draw call, leaving the accumulator empty.
func (a *Accumulator) Take() []DrawCall {
	a.Flush()
	calls := a.calls
	a.calls = nil
	return calls
}

// Stats returns the counters.
func (a *Accumulator) Stats() Stats { return a.stats }

// Reset drops pending and closed draw calls and clears the counters.
func (a *Accumulator) Reset() {
	a.open = false
	a.state = RenderState{}
	a.vertices = nil
	a.count = 0
	a.calls = nil
	a.stats = Stats{}
}
