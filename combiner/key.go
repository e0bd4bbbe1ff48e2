package combiner

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/gogpu/rcp/texture"
)

// Flags are the pipeline features a program is specialized for.
type Flags uint16

// Program feature flags.
const (
	FlagTwoCycle Flags = 1 << iota
	FlagTexture0
	FlagTexture1
	FlagFog
	FlagAlpha
	FlagTextureEdge
	FlagAlphaThreshold
	FlagAlphaDither
)

var flagNames = [...]string{
	"two_cycle", "texture0", "texture1", "fog",
	"alpha", "texture_edge", "alpha_threshold", "alpha_dither",
}

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// Key identifies a compiled program. Two draws with equal keys share one
// program.
type Key struct {
	Combine uint64 // Params.Packed
	Flags   Flags
	Filter  texture.Filter
}

// KeyOptions carries the other-mode state that specializes a program.
type KeyOptions struct {
	TwoCycle       bool
	Fog            bool
	Alpha          bool
	TextureEdge    bool
	AlphaThreshold bool
	AlphaDither    bool
	Filter         texture.Filter
}

// NewKey builds the program key for p. Texture flags are derived from the
// operands p reads. The filter is only kept for textured programs.
func NewKey(p Params, o KeyOptions) Key {
	var f Flags
	set := func(b bool, bit Flags) {
		if b {
			f |= bit
		}
	}
	tex0, tex1 := p.Textures(o.TwoCycle)
	set(o.TwoCycle, FlagTwoCycle)
	set(tex0, FlagTexture0)
	set(tex1, FlagTexture1)
	set(o.Fog, FlagFog)
	set(o.Alpha, FlagAlpha)
	set(o.TextureEdge, FlagTextureEdge)
	set(o.AlphaThreshold, FlagAlphaThreshold)
	set(o.AlphaDither, FlagAlphaDither)

	k := Key{Combine: p.Packed(), Flags: f}
	if tex0 || tex1 {
		k.Filter = o.Filter
	}
	return k
}

// Params decodes the combine words stored in the key.
func (k Key) Params() Params { return Unpack(k.Combine) }

// Textured reports whether the program samples any texture.
func (k Key) Textured() bool { return k.Flags&(FlagTexture0|FlagTexture1) != 0 }

// UseAlpha reports whether vertex inputs carry alpha. Texture-edge mode
// needs alpha even when blending is off.
func (k Key) UseAlpha() bool { return k.Flags&(FlagAlpha|FlagTextureEdge) != 0 }

// Hash returns a stable 64-bit digest of the key.
func (k Key) Hash() uint64 {
	var buf [11]byte
	binary.LittleEndian.PutUint64(buf[0:], k.Combine)
	binary.LittleEndian.PutUint16(buf[8:], uint16(k.Flags))
	buf[10] = byte(k.Filter)
	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

func (k Key) String() string {
	return fmt.Sprintf("%016x/%v/%v", k.Combine, k.Flags, k.Filter)
}
