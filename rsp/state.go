package rsp

import (
	"github.com/gogpu/rcp/gbi"
	"golang.org/x/image/math/f32"
)

const (
	// StackCapacity is the depth of the modelview matrix stack.
	StackCapacity = 11
	// MaxVertices is the number of vertex-table slots addressable by G_VTX.
	MaxVertices = 64
	// VertexTableSize includes four trailing slots reserved for rectangles.
	VertexTableSize = MaxVertices + 4
	// MaxLights is the number of directional lights plus ambient minus one.
	MaxLights = 7
)

// Light is a directional light as stored by G_MOVEMEM. For the ambient
// slot only Color is used.
type Light struct {
	Color     [3]uint8
	Direction [3]int8
}

// DecodeLight reads the 16-byte light structure: color, a padding byte,
// a copy of the color, another padding byte, then the direction.
func DecodeLight(b []byte) Light {
	return Light{
		Color:     [3]uint8{b[0], b[1], b[2]},
		Direction: [3]int8{int8(b[8]), int8(b[9]), int8(b[10])},
	}
}

// StagingVertex is one transformed entry of the vertex table.
type StagingVertex struct {
	Position f32.Vec4
	U, V     float32
	// Color holds RGB and, in the last channel, either vertex alpha or the
	// fog factor when fog is enabled.
	Color [4]uint8
	// ClipReject has one bit per frustum plane the vertex lies outside of.
	ClipReject uint8
}

// State is the RSP half of the RCP: matrices, lights, fog and the vertex
// table. The zero value is not ready for use; call Reset.
type State struct {
	GeometryMode gbi.GeometryMode

	Projection Matrix
	stack      [StackCapacity]Matrix
	pointer    int
	mvp        Matrix

	lightsValid  bool
	NumLights    int
	Lights       [MaxLights + 1]Light
	LookAt       [2]Light
	lightCoeffs  [MaxLights]f32.Vec3
	lookAtCoeffs [2]f32.Vec3

	FogMultiplier int16
	FogOffset     int16

	Vertices [VertexTableSize]StagingVertex
}

// NewState returns a reset RSP state.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset restores power-on state: identity matrices, one stack entry,
// one directional light plus ambient and all geometry modes cleared.
// The vertex table keeps its contents; it is always written before use.
func (s *State) Reset() {
	s.GeometryMode = 0
	s.Projection = Identity()
	s.stack[0] = Identity()
	s.pointer = 1
	s.mvp = Identity()
	s.Lights = [MaxLights + 1]Light{}
	s.LookAt = [2]Light{
		{Direction: [3]int8{127, 0, 0}},
		{Direction: [3]int8{0, 127, 0}},
	}
	s.SetNumLights(2)
	s.FogMultiplier = 0
	s.FogOffset = 0
}

// Top returns the current modelview matrix.
func (s *State) Top() Matrix { return s.stack[s.pointer-1] }

// Depth returns the number of occupied stack entries (1..StackCapacity).
func (s *State) Depth() int { return s.pointer }

// MVP returns the cached modelview-projection product.
func (s *State) MVP() Matrix { return s.mvp }

// ApplyMatrix performs a G_MTX operation. params uses the gbi.Mtx* flags.
//
// Projection loads replace the projection matrix; projection multiplies
// compute m·P. Modelview operations optionally push a copy of the top
// first (a no-op once the stack is full), then replace or right-multiply
// the top.
func (s *State) ApplyMatrix(m Matrix, params uint8) {
	if params&gbi.MtxProjection != 0 {
		if params&gbi.MtxLoad != 0 {
			s.Projection = m
		} else {
			s.Projection = m.Mul(s.Projection)
		}
	} else {
		if params&gbi.MtxPush != 0 && s.pointer < StackCapacity {
			s.pointer++
			s.stack[s.pointer-1] = s.stack[s.pointer-2]
		}
		if params&gbi.MtxLoad != 0 {
			s.stack[s.pointer-1] = m
		} else {
			s.stack[s.pointer-1] = m.Mul(s.stack[s.pointer-1])
		}
	}
	s.lightsValid = false
	s.recomputeMVP()
}

// PopMatrix pops n modelview matrices. The bottom entry is never popped.
func (s *State) PopMatrix(n int) {
	if n <= 0 {
		return
	}
	s.pointer -= n
	if s.pointer < 1 {
		s.pointer = 1
	}
	s.lightsValid = false
	s.recomputeMVP()
}

func (s *State) recomputeMVP() {
	s.mvp = s.stack[s.pointer-1].Mul(s.Projection)
}

// SetNumLights sets the light count including ambient, clamped to the
// light table.
func (s *State) SetNumLights(n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxLights+1 {
		n = MaxLights + 1
	}
	s.NumLights = n
	s.lightsValid = false
}

// SetLight stores light i. It reports false for an out-of-range index.
func (s *State) SetLight(i int, l Light) bool {
	if i < 0 || i >= len(s.Lights) {
		return false
	}
	s.Lights[i] = l
	s.lightsValid = false
	return true
}

// SetLookAt stores the lookat X (axis 0) or Y (axis 1) direction.
func (s *State) SetLookAt(axis int, l Light) bool {
	if axis < 0 || axis > 1 {
		return false
	}
	s.LookAt[axis] = l
	s.lightsValid = false
	return true
}

// LightsValid reports whether the cached light directions are current.
func (s *State) LightsValid() bool { return s.lightsValid }

func (s *State) updateLightCoefficients() {
	if s.lightsValid {
		return
	}
	top := s.Top()
	for i := 0; i < s.NumLights-1; i++ {
		s.lightCoeffs[i] = normalDirection(s.Lights[i], top)
	}
	s.lookAtCoeffs[0] = normalDirection(s.LookAt[0], top)
	s.lookAtCoeffs[1] = normalDirection(s.LookAt[1], top)
	s.lightsValid = true
}

func normalDirection(l Light, m Matrix) f32.Vec3 {
	dir := f32.Vec3{
		float32(l.Direction[0]) / 127,
		float32(l.Direction[1]) / 127,
		float32(l.Direction[2]) / 127,
	}
	return normalize(m.TransposedMul(dir))
}
