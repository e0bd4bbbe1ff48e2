package combiner

import (
	"errors"
	"fmt"

	"github.com/gogpu/rcp/gbi"
)

var (
	// ErrCorrupt marks combiner data no GBI macro produces. The current
	// display list should be abandoned.
	ErrCorrupt = errors.New("combiner: corrupt mux value")

	// ErrUnsupported marks a valid combiner setup this renderer cannot
	// express. The affected primitive is skipped.
	ErrUnsupported = errors.New("combiner: unsupported feature")
)

// DecodeError describes a mux value that failed to decode.
type DecodeError struct {
	Cycle   int
	Channel Channel
	Slot    Slot
	Value   uint8
	Kind    error // ErrCorrupt or ErrUnsupported
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("combiner: cycle %d %s %s = %d: %v", e.Cycle, e.Channel, e.Slot, e.Value, e.Kind)
}

func (e *DecodeError) Unwrap() error { return e.Kind }

// Equation holds the raw mux values of (A-B)*C+D, indexed by Slot.
type Equation [4]uint8

// Cycle is one combiner cycle: a color and an alpha equation.
type Cycle struct {
	Color Equation
	Alpha Equation
}

// Equation returns the equation of a channel.
func (c Cycle) Equation(ch Channel) Equation {
	if ch == ChannelAlpha {
		return c.Alpha
	}
	return c.Color
}

// Params is the decoded state of a SETCOMBINE command. The second cycle
// only takes effect in two-cycle mode.
type Params struct {
	Cycles [2]Cycle
}

// field positions within the two command words, per cycle and slot.
type fieldPos struct {
	word  int // 0 or 1
	shift uint
}

var colorFields = [2][4]fieldPos{
	{{0, 20}, {1, 28}, {0, 15}, {1, 15}},
	{{0, 5}, {1, 24}, {0, 0}, {1, 6}},
}

var alphaFields = [2][4]fieldPos{
	{{0, 12}, {1, 12}, {0, 9}, {1, 9}},
	{{1, 21}, {1, 3}, {1, 18}, {1, 0}},
}

func fields(ch Channel) *[2][4]fieldPos {
	if ch == ChannelAlpha {
		return &alphaFields
	}
	return &colorFields
}

// DecodeRaw unpacks SETCOMBINE words without validating them. The opcode
// byte of w0 is ignored.
func DecodeRaw(w0, w1 uint32) Params {
	words := [2]uint32{w0, w1}
	var p Params
	for c := 0; c < 2; c++ {
		for s := SlotA; s <= SlotD; s++ {
			cf := colorFields[c][s]
			p.Cycles[c].Color[s] = uint8(gbi.Field(words[cf.word], cf.shift, fieldWidth(ChannelColor, s)))
			af := alphaFields[c][s]
			p.Cycles[c].Alpha[s] = uint8(gbi.Field(words[af.word], af.shift, 3))
		}
	}
	return p
}

// Decode unpacks and validates SETCOMBINE words. Mux values outside the
// enumeration of their slot yield a *DecodeError wrapping ErrCorrupt.
func Decode(w0, w1 uint32) (Params, error) {
	p := DecodeRaw(w0, w1)
	return p, p.Validate()
}

// Validate checks every mux value against its slot.
func (p Params) Validate() error {
	for c := 0; c < 2; c++ {
		for _, ch := range [...]Channel{ChannelColor, ChannelAlpha} {
			eq := p.Cycles[c].Equation(ch)
			for s := SlotA; s <= SlotD; s++ {
				if _, ok := Resolve(ch, s, eq[s]); !ok {
					return &DecodeError{Cycle: c, Channel: ch, Slot: s, Value: eq[s], Kind: ErrCorrupt}
				}
			}
		}
	}
	return nil
}

// Encode packs the params into SETCOMBINE words without the opcode byte.
func (p Params) Encode() (w0, w1 uint32) {
	var words [2]uint32
	for c := 0; c < 2; c++ {
		for _, ch := range [...]Channel{ChannelColor, ChannelAlpha} {
			eq := p.Cycles[c].Equation(ch)
			for s := SlotA; s <= SlotD; s++ {
				f := fields(ch)[c][s]
				words[f.word] |= gbi.Shift(uint32(eq[s]), f.shift, fieldWidth(ch, s))
			}
		}
	}
	return words[0], words[1]
}

// Command returns the SETCOMBINE command that sets p.
func (p Params) Command() gbi.Command {
	w0, w1 := p.Encode()
	return gbi.Command{W0: uint32(gbi.OpSetCombine)<<24 | w0, W1: w1}
}

// Packed returns both command words as one value, w0 in the high half.
func (p Params) Packed() uint64 {
	w0, w1 := p.Encode()
	return uint64(w0)<<32 | uint64(w1)
}

// Unpack is the inverse of Packed.
func Unpack(v uint64) Params {
	return DecodeRaw(uint32(v>>32), uint32(v))
}

// Operand resolves one slot. Invalid values resolve to Zero.
func (p Params) Operand(cycle int, ch Channel, slot Slot) Operand {
	op, _ := Resolve(ch, slot, p.Cycles[cycle&1].Equation(ch)[slot&3])
	return op
}

// Uses reports whether any slot of one cycle resolves to one of ops.
func (p Params) Uses(cycle int, ops ...Operand) bool {
	for _, ch := range [...]Channel{ChannelColor, ChannelAlpha} {
		for s := SlotA; s <= SlotD; s++ {
			got := p.Operand(cycle, ch, s)
			for _, op := range ops {
				if got == op {
					return true
				}
			}
		}
	}
	return false
}

// Textures reports which texture units a draw with these params samples.
// The second cycle reads the units swapped: its TEXEL0 is unit 1. In
// one-cycle mode TEXEL1 aliases unit 0.
func (p Params) Textures(twoCycle bool) (tex0, tex1 bool) {
	if !twoCycle {
		return p.Uses(0, Texel0, Texel0Alpha, Texel1, Texel1Alpha), false
	}
	tex0 = p.Uses(0, Texel0, Texel0Alpha) || p.Uses(1, Texel1, Texel1Alpha)
	tex1 = p.Uses(0, Texel1, Texel1Alpha) || p.Uses(1, Texel0, Texel0Alpha)
	return tex0, tex1
}

func (p Params) String() string {
	var b []byte
	for c := 0; c < 2; c++ {
		if c > 0 {
			b = append(b, " | "...)
		}
		for _, ch := range [...]Channel{ChannelColor, ChannelAlpha} {
			if ch == ChannelAlpha {
				b = append(b, ", "...)
			}
			b = fmt.Appendf(b, "(%v-%v)*%v+%v",
				p.Operand(c, ch, SlotA), p.Operand(c, ch, SlotB),
				p.Operand(c, ch, SlotC), p.Operand(c, ch, SlotD))
		}
	}
	return string(b)
}

// Equations for common fixed-function setups.
var (
	// Shaded is (0-0)*0+SHADE in both channels.
	Shaded = newParams(
		Equation{MuxZeroAB, MuxZeroAB, MuxZeroC, MuxShade},
		Equation{AMuxZero, AMuxZero, AMuxZero, AMuxShade},
	)

	// Textured is (0-0)*0+TEXEL0 in both channels.
	Textured = newParams(
		Equation{MuxZeroAB, MuxZeroAB, MuxZeroC, MuxTexel0},
		Equation{AMuxZero, AMuxZero, AMuxZero, AMuxTexel0},
	)

	// Modulate is TEXEL0*SHADE in both channels.
	Modulate = newParams(
		Equation{MuxTexel0, MuxZeroAB, MuxShade, MuxZeroD},
		Equation{AMuxTexel0, AMuxZero, AMuxShade, AMuxZero},
	)
)

func newParams(color, alpha Equation) Params {
	c := Cycle{Color: color, Alpha: alpha}
	return Params{Cycles: [2]Cycle{c, c}}
}
