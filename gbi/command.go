package gbi

import "fmt"

// Command is one display-list instruction: two 32-bit words.
type Command struct {
	W0, W1 uint32
}

// Opcode returns the opcode byte stored in the top of W0.
func (c Command) Opcode() Opcode { return Opcode(c.W0 >> 24) }

// String formats the command as "MNEMONIC w0 w1".
func (c Command) String() string {
	return fmt.Sprintf("%s %08x %08x", c.Opcode(), c.W0, c.W1)
}

// Field extracts width bits of word starting at bit pos.
func Field(word uint32, pos, width uint) uint32 {
	return uint32((uint64(word) >> pos) & (1<<width - 1))
}

// SignExtend interprets the low bits of v as a two's complement number.
func SignExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// Shift places value into a word at bit pos, masked to width bits. It is the
// inverse of [Field] and is used to assemble commands.
func Shift(value uint32, pos, width uint) uint32 {
	return uint32((uint64(value) & (1<<width - 1)) << pos)
}
