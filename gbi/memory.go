package gbi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a read falls outside the backing memory.
var ErrOutOfRange = errors.New("gbi: address out of range")

// Memory is the collaborator that owns the bytes a display list refers to.
//
// Resolve maps a raw (possibly segmented) address from a command word to a
// physical address. Read returns n bytes at a physical address; the
// returned slice may alias the backing store and must not be modified.
// ByteOrder is the order of multi-byte words, vertices and matrices.
type Memory interface {
	Resolve(addr uint32) uint32
	Read(addr uint32, n int) ([]byte, error)
	ByteOrder() binary.ByteOrder
}

// SegmentSetter is implemented by memories that keep a segment table the
// display list can update with G_MOVEWORD.
type SegmentSetter interface {
	SetSegment(seg int, base uint32)
}

// NumSegments is the size of the segment table.
const NumSegments = 16

// FlatMemory is a contiguous byte slice mapped at a base address.
//
// Addresses with bit 31 set are treated as direct-mapped kernel addresses
// and masked to 29 bits. Other addresses are segmented: bits 24..27 select
// a segment base and the low 24 bits are an offset. Segment 0 has base 0,
// so plain physical addresses resolve to themselves.
type FlatMemory struct {
	base     uint32
	data     []byte
	order    binary.ByteOrder
	segments [NumSegments]uint32
}

// NewFlatMemory creates a memory over data mapped at base. A nil order
// defaults to big-endian.
func NewFlatMemory(base uint32, data []byte, order binary.ByteOrder) *FlatMemory {
	if order == nil {
		order = binary.BigEndian
	}
	return &FlatMemory{base: base, data: data, order: order}
}

// Resolve implements Memory.
func (m *FlatMemory) Resolve(addr uint32) uint32 {
	if addr&0x80000000 != 0 {
		return addr & 0x1FFFFFFF
	}
	seg := (addr >> 24) & 0x0F
	return m.segments[seg] + addr&0x00FFFFFF
}

// Read implements Memory.
func (m *FlatMemory) Read(addr uint32, n int) ([]byte, error) {
	if n < 0 || addr < m.base {
		return nil, fmt.Errorf("%w: %#08x", ErrOutOfRange, addr)
	}
	off := uint64(addr - m.base)
	if off+uint64(n) > uint64(len(m.data)) {
		return nil, fmt.Errorf("%w: %#08x+%d", ErrOutOfRange, addr, n)
	}
	return m.data[off : off+uint64(n)], nil
}

// ByteOrder implements Memory.
func (m *FlatMemory) ByteOrder() binary.ByteOrder { return m.order }

// SetSegment implements SegmentSetter. Out-of-range segments are ignored.
func (m *FlatMemory) SetSegment(seg int, base uint32) {
	if seg < 0 || seg >= NumSegments {
		return
	}
	m.segments[seg] = base & 0x1FFFFFFF
}

// Segment returns the base of a segment.
func (m *FlatMemory) Segment(seg int) uint32 {
	if seg < 0 || seg >= NumSegments {
		return 0
	}
	return m.segments[seg]
}

// Bytes returns the backing store.
func (m *FlatMemory) Bytes() []byte { return m.data }

// ReadResolved resolves a raw address and reads n bytes behind it.
func ReadResolved(mem Memory, raw uint32, n int) ([]byte, error) {
	return mem.Read(mem.Resolve(raw), n)
}

// ReadWords reads count 32-bit words in the memory's byte order.
func ReadWords(mem Memory, raw uint32, count int) ([]uint32, error) {
	b, err := ReadResolved(mem, raw, count*4)
	if err != nil {
		return nil, err
	}
	order := mem.ByteOrder()
	words := make([]uint32, count)
	for i := range words {
		words[i] = order.Uint32(b[i*4:])
	}
	return words, nil
}
