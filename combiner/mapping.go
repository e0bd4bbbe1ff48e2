package combiner

import "fmt"

// MaxInputs is the number of per-vertex input slots a program can read.
const MaxInputs = 4

// Input is a per-vertex value the triangle emitter must supply.
type Input uint8

// Vertex input sources. InputNone marks an unused slot.
const (
	InputNone Input = iota
	InputPrimitive
	InputShade
	InputEnvironment
	InputLODFraction
	InputShadeAlpha
)

func (in Input) String() string {
	switch in {
	case InputNone:
		return "none"
	case InputPrimitive:
		return "primitive"
	case InputShade:
		return "shade"
	case InputEnvironment:
		return "environment"
	case InputLODFraction:
		return "lod_fraction"
	case InputShadeAlpha:
		return "shade_alpha"
	}
	return fmt.Sprintf("Input(%d)", uint8(in))
}

// inputFor returns the vertex input an operand is read from, or InputNone
// when the operand comes from a texture, a uniform or a constant.
func inputFor(ch Channel, op Operand) Input {
	switch op {
	case Primitive:
		return InputPrimitive
	case Shade:
		return InputShade
	case Environment:
		return InputEnvironment
	case LODFraction:
		return InputLODFraction
	case ShadeAlpha:
		if ch == ChannelColor {
			return InputShadeAlpha
		}
	}
	return InputNone
}

// Mapping assigns vertex inputs to slots. Slot i of Color feeds the rgb
// part of shader input i+1, slot i of Alpha feeds its alpha part.
type Mapping struct {
	Color [MaxInputs]Input
	Alpha [MaxInputs]Input

	// NumInputs is the number of input locations the vertex layout carries.
	NumInputs int
	// UseAlpha reports whether inputs carry an alpha component.
	UseAlpha bool
}

// NewMapping collects the vertex inputs the active cycles read, dropping
// duplicates within each channel. The alpha channel is only scanned when
// useAlpha is set.
func NewMapping(p Params, twoCycle, useAlpha bool) (Mapping, error) {
	m := Mapping{UseAlpha: useAlpha}
	cycles := 1
	if twoCycle {
		cycles = 2
	}

	nColor, err := collect(p, cycles, ChannelColor, &m.Color)
	if err != nil {
		return Mapping{}, err
	}
	m.NumInputs = nColor
	if useAlpha {
		nAlpha, err := collect(p, cycles, ChannelAlpha, &m.Alpha)
		if err != nil {
			return Mapping{}, err
		}
		m.NumInputs = max(nColor, nAlpha)
	}
	return m, nil
}

func collect(p Params, cycles int, ch Channel, dst *[MaxInputs]Input) (int, error) {
	n := 0
	for c := 0; c < cycles; c++ {
		for s := SlotA; s <= SlotD; s++ {
			in := inputFor(ch, p.Operand(c, ch, s))
			if in == InputNone || indexOf(dst[:n], in) >= 0 {
				continue
			}
			if n == MaxInputs {
				return 0, &DecodeError{Cycle: c, Channel: ch, Slot: s, Value: p.Cycles[c].Equation(ch)[s], Kind: ErrUnsupported}
			}
			dst[n] = in
			n++
		}
	}
	return n, nil
}

func indexOf(ins []Input, in Input) int {
	for i, v := range ins {
		if v == in {
			return i
		}
	}
	return -1
}

// Slot returns the 1-based shader input number an operand is read from,
// or 0 when it is not a vertex input.
func (m Mapping) Slot(ch Channel, op Operand) int {
	in := inputFor(ch, op)
	if in == InputNone {
		return 0
	}
	slots := m.Color[:]
	if ch == ChannelAlpha {
		slots = m.Alpha[:]
	}
	return indexOf(slots, in) + 1
}
