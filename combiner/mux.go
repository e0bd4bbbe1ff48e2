package combiner

import "fmt"

// Channel selects the color or alpha half of a combiner cycle.
type Channel uint8

// Combiner channels.
const (
	ChannelColor Channel = iota
	ChannelAlpha
)

func (c Channel) String() string {
	if c == ChannelAlpha {
		return "alpha"
	}
	return "color"
}

// Slot is one operand position of the equation (A-B)*C+D.
type Slot uint8

// Equation operand slots.
const (
	SlotA Slot = iota
	SlotB
	SlotC
	SlotD
)

func (s Slot) String() string {
	if s > SlotD {
		return fmt.Sprintf("Slot(%d)", uint8(s))
	}
	return string("ABCD"[s])
}

// Raw G_CCMUX_* values as they appear in a SETCOMBINE command. Values 6
// and 7 mean different things depending on the slot.
const (
	MuxCombined        uint8 = 0
	MuxTexel0          uint8 = 1
	MuxTexel1          uint8 = 2
	MuxPrimitive       uint8 = 3
	MuxShade           uint8 = 4
	MuxEnvironment     uint8 = 5
	MuxOne             uint8 = 6 // A, D
	MuxCenter          uint8 = 6 // B
	MuxScale           uint8 = 6 // C
	MuxNoise           uint8 = 7 // A
	MuxK4              uint8 = 7 // B
	MuxCombinedAlpha   uint8 = 7 // C
	MuxTexel0Alpha     uint8 = 8
	MuxTexel1Alpha     uint8 = 9
	MuxPrimitiveAlpha  uint8 = 10
	MuxShadeAlpha      uint8 = 11
	MuxEnvAlpha        uint8 = 12
	MuxLODFraction     uint8 = 13
	MuxPrimLODFraction uint8 = 14
	MuxK5              uint8 = 15
	MuxZeroAB          uint8 = 15 // A, B
	MuxZeroC           uint8 = 31
	MuxZeroD           uint8 = 7
)

// Raw G_ACMUX_* values.
const (
	AMuxCombined        uint8 = 0 // A, B, D
	AMuxLODFraction     uint8 = 0 // C
	AMuxTexel0          uint8 = 1
	AMuxTexel1          uint8 = 2
	AMuxPrimitive       uint8 = 3
	AMuxShade           uint8 = 4
	AMuxEnvironment     uint8 = 5
	AMuxOne             uint8 = 6 // A, B, D
	AMuxPrimLODFraction uint8 = 6 // C
	AMuxZero            uint8 = 7
)

// Operand is a resolved combiner input, independent of slot encoding.
type Operand uint8

// Resolved operands.
const (
	Zero Operand = iota
	One
	Combined
	CombinedAlpha
	Texel0
	Texel0Alpha
	Texel1
	Texel1Alpha
	Primitive
	PrimitiveAlpha
	Shade
	ShadeAlpha
	Environment
	EnvironmentAlpha
	Center
	Scale
	Noise
	K4
	K5
	LODFraction
	PrimLODFraction
)

var operandNames = [...]string{
	Zero:             "ZERO",
	One:              "ONE",
	Combined:         "COMBINED",
	CombinedAlpha:    "COMBINED_ALPHA",
	Texel0:           "TEXEL0",
	Texel0Alpha:      "TEXEL0_ALPHA",
	Texel1:           "TEXEL1",
	Texel1Alpha:      "TEXEL1_ALPHA",
	Primitive:        "PRIMITIVE",
	PrimitiveAlpha:   "PRIMITIVE_ALPHA",
	Shade:            "SHADE",
	ShadeAlpha:       "SHADE_ALPHA",
	Environment:      "ENVIRONMENT",
	EnvironmentAlpha: "ENV_ALPHA",
	Center:           "CENTER",
	Scale:            "SCALE",
	Noise:            "NOISE",
	K4:               "K4",
	K5:               "K5",
	LODFraction:      "LOD_FRACTION",
	PrimLODFraction:  "PRIM_LOD_FRAC",
}

func (o Operand) String() string {
	if int(o) < len(operandNames) {
		return operandNames[o]
	}
	return fmt.Sprintf("Operand(%d)", uint8(o))
}

// common is the 0..5 prefix shared by every slot of both channels.
var common = [6]Operand{Combined, Texel0, Texel1, Primitive, Shade, Environment}

// Resolve maps a raw mux value in a slot to its operand. ok is false for
// values the GBI never emits in that slot.
func Resolve(ch Channel, slot Slot, v uint8) (op Operand, ok bool) {
	if ch == ChannelAlpha {
		return resolveAlpha(slot, v)
	}
	return resolveColor(slot, v)
}

func resolveColor(slot Slot, v uint8) (Operand, bool) {
	if v < 6 {
		return common[v], true
	}
	switch slot {
	case SlotA:
		switch v {
		case MuxOne:
			return One, true
		case MuxNoise:
			return Noise, true
		case MuxZeroAB:
			return Zero, true
		}
	case SlotB:
		switch v {
		case MuxCenter:
			return Center, true
		case MuxK4:
			return K4, true
		case MuxZeroAB:
			return Zero, true
		}
	case SlotC:
		switch v {
		case MuxScale:
			return Scale, true
		case MuxCombinedAlpha:
			return CombinedAlpha, true
		case MuxTexel0Alpha:
			return Texel0Alpha, true
		case MuxTexel1Alpha:
			return Texel1Alpha, true
		case MuxPrimitiveAlpha:
			return PrimitiveAlpha, true
		case MuxShadeAlpha:
			return ShadeAlpha, true
		case MuxEnvAlpha:
			return EnvironmentAlpha, true
		case MuxLODFraction:
			return LODFraction, true
		case MuxPrimLODFraction:
			return PrimLODFraction, true
		case MuxK5:
			return K5, true
		case MuxZeroC:
			return Zero, true
		}
	case SlotD:
		switch v {
		case MuxOne:
			return One, true
		case MuxZeroD:
			return Zero, true
		}
	}
	return Zero, false
}

func resolveAlpha(slot Slot, v uint8) (Operand, bool) {
	if v > AMuxZero || slot > SlotD {
		return Zero, false
	}
	switch {
	case v == AMuxZero:
		return Zero, true
	case slot == SlotC && v == AMuxLODFraction:
		return LODFraction, true
	case slot == SlotC && v == AMuxPrimLODFraction:
		return PrimLODFraction, true
	case v == AMuxOne:
		return One, true
	}
	return common[v], true
}

// fieldWidth is the encoded width of each slot in bits.
func fieldWidth(ch Channel, slot Slot) uint {
	if ch == ChannelAlpha {
		return 3
	}
	switch slot {
	case SlotA, SlotB:
		return 4
	case SlotC:
		return 5
	default:
		return 3
	}
}

// ValidValues returns every raw value the GBI emits for a slot, in
// ascending order.
func ValidValues(ch Channel, slot Slot) []uint8 {
	var out []uint8
	for v := uint8(0); v < 1<<fieldWidth(ch, slot); v++ {
		if _, ok := Resolve(ch, slot, v); ok {
			out = append(out, v)
		}
	}
	return out
}
