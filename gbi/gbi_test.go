package gbi

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestField(t *testing.T) {
	tests := []struct {
		name  string
		word  uint32
		pos   uint
		width uint
		want  uint32
	}{
		{"opcode byte", 0xDE010000, 24, 8, 0xDE},
		{"branch flag", 0xDE010000, 16, 1, 1},
		{"low 12 bits", 0x00ABCDEF, 0, 12, 0xDEF},
		{"middle nibble", 0x00ABCDEF, 12, 4, 0xC},
		{"full word", 0xFFFFFFFF, 0, 32, 0xFFFFFFFF},
		{"zero width", 0xFFFFFFFF, 4, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Field(tt.word, tt.pos, tt.width); got != tt.want {
				t.Errorf("Field(%#x, %d, %d) = %#x, want %#x", tt.word, tt.pos, tt.width, got, tt.want)
			}
		})
	}
}

func TestShiftIsInverseOfField(t *testing.T) {
	for _, width := range []uint{1, 3, 8, 12, 24} {
		for _, pos := range []uint{0, 4, 8} {
			v := uint32(0x5A5A5A) & (1<<width - 1)
			if got := Field(Shift(v, pos, width), pos, width); got != v {
				t.Errorf("Field(Shift(%#x, %d, %d)) = %#x", v, pos, width, got)
			}
		}
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		v    uint32
		bits uint
		want int32
	}{
		{0x7FFFFF, 24, 0x7FFFFF},
		{0x800000, 24, -0x800000},
		{0xFFFFFF, 24, -1},
		{0x0FFF, 12, -1},
		{0x07FF, 12, 2047},
	}
	for _, tt := range tests {
		if got := SignExtend(tt.v, tt.bits); got != tt.want {
			t.Errorf("SignExtend(%#x, %d) = %d, want %d", tt.v, tt.bits, got, tt.want)
		}
	}
}

func TestCommandOpcode(t *testing.T) {
	c := EndDL()
	if c.Opcode() != OpEndDL {
		t.Errorf("EndDL().Opcode() = %v, want %v", c.Opcode(), OpEndDL)
	}
	if got := c.String(); got != "G_ENDDL df000000 00000000" {
		t.Errorf("String() = %q", got)
	}
	if got := Opcode(0x42).String(); got != "G_UNKNOWN(0x42)" {
		t.Errorf("unknown opcode String() = %q", got)
	}
}

func TestCursorWalk(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		list := Encode(order, Tri1(0, 1, 2), EndDL())
		mem := NewFlatMemory(0x100, list, order)
		cur := NewCursor(mem, 0x100)

		peek, err := cur.Peek()
		if err != nil {
			t.Fatalf("Peek: %v", err)
		}
		if cur.Addr() != 0x100 {
			t.Errorf("Peek advanced cursor to %#x", cur.Addr())
		}

		first, err := cur.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if first != peek || first.Opcode() != OpTri1 {
			t.Errorf("Next() = %v, want G_TRI1", first)
		}
		second, err := cur.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if second.Opcode() != OpEndDL {
			t.Errorf("second command = %v, want G_ENDDL", second)
		}
		if _, err := cur.Next(); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("reading past the end: err = %v, want ErrOutOfRange", err)
		}
	}
}

func TestFlatMemoryResolve(t *testing.T) {
	mem := NewFlatMemory(0, make([]byte, 0x1000), nil)
	mem.SetSegment(6, 0x400)
	mem.SetSegment(99, 0x800)

	tests := []struct {
		raw, want uint32
	}{
		{0x00000010, 0x10},
		{0x06000010, 0x410},
		{0x80000200, 0x200},
		{0xA0000300, 0x300},
		{0x07000010, 0x10},
	}
	for _, tt := range tests {
		if got := mem.Resolve(tt.raw); got != tt.want {
			t.Errorf("Resolve(%#x) = %#x, want %#x", tt.raw, got, tt.want)
		}
	}
	if mem.ByteOrder() != binary.BigEndian {
		t.Error("nil byte order should default to big-endian")
	}
}

func TestFlatMemoryReadBounds(t *testing.T) {
	mem := NewFlatMemory(0x1000, make([]byte, 16), binary.BigEndian)
	tests := []struct {
		name    string
		addr    uint32
		n       int
		wantErr bool
	}{
		{"whole", 0x1000, 16, false},
		{"tail", 0x100C, 4, false},
		{"before base", 0x0FFF, 1, true},
		{"past end", 0x100D, 4, true},
		{"negative", 0x1000, -1, true},
		{"wrap", 0xFFFFFFFF, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mem.Read(tt.addr, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("Read(%#x, %d) err = %v, wantErr %v", tt.addr, tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestReadWords(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0xAA, 0xBB, 0xCC, 0xDD}
	mem := NewFlatMemory(0, data, binary.LittleEndian)
	words, err := ReadWords(mem, 0, 2)
	if err != nil {
		t.Fatalf("ReadWords: %v", err)
	}
	if words[0] != 0x04030201 || words[1] != 0xDDCCBBAA {
		t.Errorf("ReadWords = %#x", words)
	}
}

func TestBuilderFields(t *testing.T) {
	v := Vertex(0x06000000, 3, 0)
	if Field(v.W0, 12, 8) != 3 || Field(v.W0, 1, 7) != 3 {
		t.Errorf("Vertex fields = %#x", v.W0)
	}

	tri := Tri2(0, 1, 2, 3, 4, 5)
	if Field(tri.W0, 8, 8)/2 != 1 || Field(tri.W1, 0, 8)/2 != 5 {
		t.Errorf("Tri2 words = %#x %#x", tri.W0, tri.W1)
	}

	l := SetOtherModeL(4, 2, 0x30)
	shift := 31 - Field(l.W0, 8, 8) - Field(l.W0, 0, 8)
	length := Field(l.W0, 0, 8) + 1
	if shift != 4 || length != 2 {
		t.Errorf("SetOtherModeL decodes to shift %d length %d", shift, length)
	}

	m := MoveMem(MVLight, MVOLight0, LightSize, 0x10)
	if Field(m.W0, 8, 8)*8 != MVOLight0 {
		t.Errorf("MoveMem offset = %d", Field(m.W0, 8, 8)*8)
	}

	mtx := Matrix(0x40, MtxLoad|MtxProjection)
	if uint8(Field(mtx.W0, 0, 8))^MtxPush != MtxLoad|MtxProjection {
		t.Errorf("Matrix params = %#x", Field(mtx.W0, 0, 8))
	}

	tr := TexRect(false, 0, 0, 0, 32<<2, 32<<2, 0, 0, 1<<10, 1<<10)
	if len(tr) != 3 || tr[1].Opcode() != OpRDPHalf1 || tr[2].Opcode() != OpRDPHalf2 {
		t.Errorf("TexRect = %v", tr)
	}
}

func TestGeometryModeHas(t *testing.T) {
	g := ZBuffer | CullBack
	if !g.Has(CullBack) || g.Has(CullBoth) || !g.Has(ZBuffer) {
		t.Errorf("GeometryMode(%#x).Has mismatch", uint32(g))
	}
}

func TestActionString(t *testing.T) {
	if Recurse.String() != "Recurse" || Action(42).String() != "Action(42)" {
		t.Error("Action.String mismatch")
	}
	if r := Call(0x10); r.Action != Recurse || r.Addr != 0x10 {
		t.Errorf("Call() = %+v", r)
	}
}
