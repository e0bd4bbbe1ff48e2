package combiner

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"testing/quick"

	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/rcp/gbi"
	"github.com/gogpu/rcp/texture"
)

func eq(a, b, c, d uint8) Equation { return Equation{a, b, c, d} }

func TestEncodeShade(t *testing.T) {
	w0, w1 := Shaded.Encode()
	if w0 != 0x00FFFFFF || w1 != 0xFFFE793C {
		t.Errorf("Shaded.Encode() = %08x %08x, want 00ffffff fffe793c", w0, w1)
	}
	if cmd := Shaded.Command(); cmd.Opcode() != gbi.OpSetCombine || cmd.W0 != 0xFCFFFFFF {
		t.Errorf("Shaded.Command() = %v", cmd)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	pick := func(ch Channel, s Slot, seed uint8) uint8 {
		vals := ValidValues(ch, s)
		return vals[int(seed)%len(vals)]
	}
	f := func(seed [16]uint8) bool {
		var p Params
		i := 0
		for c := 0; c < 2; c++ {
			for s := SlotA; s <= SlotD; s++ {
				p.Cycles[c].Color[s] = pick(ChannelColor, s, seed[i])
				p.Cycles[c].Alpha[s] = pick(ChannelAlpha, s, seed[i+8])
				i++
			}
		}
		w0, w1 := p.Encode()
		got, err := Decode(w0, w1)
		return err == nil && got == p && Unpack(p.Packed()) == p
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestValidValues(t *testing.T) {
	tests := []struct {
		ch   Channel
		slot Slot
		want int
	}{
		{ChannelColor, SlotA, 9},
		{ChannelColor, SlotB, 9},
		{ChannelColor, SlotC, 17},
		{ChannelColor, SlotD, 8},
		{ChannelAlpha, SlotA, 8},
		{ChannelAlpha, SlotC, 8},
	}
	for _, tt := range tests {
		if got := len(ValidValues(tt.ch, tt.slot)); got != tt.want {
			t.Errorf("len(ValidValues(%v, %v)) = %d, want %d", tt.ch, tt.slot, got, tt.want)
		}
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		w0    uint32
		slot  Slot
		value uint8
	}{
		{"color A", 0x00FFFFFF&^(0xF<<20) | 8<<20, SlotA, 8},
		{"color C", 0x00FFFFFF&^(0x1F<<15) | 20<<15, SlotC, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.w0, 0xFFFE793C)
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("Decode() error = %v, want ErrCorrupt", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode() error %T is not *DecodeError", err)
			}
			if de.Cycle != 0 || de.Channel != ChannelColor || de.Slot != tt.slot || de.Value != tt.value {
				t.Errorf("DecodeError = %+v", de)
			}
		})
	}
}

func TestTextures(t *testing.T) {
	twoStage := Params{Cycles: [2]Cycle{
		{Color: eq(MuxTexel1, MuxZeroAB, MuxShade, MuxZeroD), Alpha: eq(AMuxZero, AMuxZero, AMuxZero, AMuxOne)},
		{Color: eq(MuxZeroAB, MuxZeroAB, MuxZeroC, MuxCombined), Alpha: eq(AMuxZero, AMuxZero, AMuxZero, AMuxCombined)},
	}}
	swapped := Params{Cycles: [2]Cycle{
		{Color: eq(MuxZeroAB, MuxZeroAB, MuxZeroC, MuxShade), Alpha: eq(AMuxZero, AMuxZero, AMuxZero, AMuxOne)},
		{Color: eq(MuxTexel0, MuxZeroAB, MuxCombined, MuxZeroD), Alpha: eq(AMuxZero, AMuxZero, AMuxZero, AMuxOne)},
	}}
	tests := []struct {
		name       string
		p          Params
		twoCycle   bool
		tex0, tex1 bool
	}{
		{"shade", Shaded, false, false, false},
		{"textured", Textured, false, true, false},
		{"texel1 one cycle", twoStage, false, true, false},
		{"texel1 two cycle", twoStage, true, false, true},
		{"texel0 second cycle", swapped, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex0, tex1 := tt.p.Textures(tt.twoCycle)
			if tex0 != tt.tex0 || tex1 != tt.tex1 {
				t.Errorf("Textures(%v) = %v, %v, want %v, %v", tt.twoCycle, tex0, tex1, tt.tex0, tt.tex1)
			}
		})
	}
}

func TestMapping(t *testing.T) {
	m, err := NewMapping(Modulate, false, true)
	if err != nil {
		t.Fatalf("NewMapping() error = %v", err)
	}
	if m.NumInputs != 1 || m.Color[0] != InputShade || m.Alpha[0] != InputShade {
		t.Errorf("NewMapping(Modulate) = %+v", m)
	}
	if got := m.Slot(ChannelColor, Shade); got != 1 {
		t.Errorf("Slot(color, SHADE) = %d, want 1", got)
	}
	if got := m.Slot(ChannelColor, Texel0); got != 0 {
		t.Errorf("Slot(color, TEXEL0) = %d, want 0", got)
	}

	noAlpha, _ := NewMapping(Modulate, false, false)
	if noAlpha.Alpha[0] != InputNone {
		t.Errorf("alpha scanned without alpha: %+v", noAlpha)
	}
}

func TestMappingDedup(t *testing.T) {
	c0 := eq(MuxPrimitive, MuxShade, MuxEnvironment, MuxPrimitive)
	c1 := eq(MuxShade, MuxEnvironment, MuxPrimitive, MuxCombined)
	alpha := eq(AMuxPrimitive, AMuxPrimitive, AMuxZero, AMuxPrimitive)
	p := Params{Cycles: [2]Cycle{{Color: c0, Alpha: alpha}, {Color: c1, Alpha: alpha}}}

	m, err := NewMapping(p, true, true)
	if err != nil {
		t.Fatalf("NewMapping() error = %v", err)
	}
	want := [MaxInputs]Input{InputPrimitive, InputShade, InputEnvironment}
	if m.Color != want || m.NumInputs != 3 {
		t.Errorf("Color = %v (n=%d), want %v", m.Color, m.NumInputs, want)
	}
	if m.Alpha[0] != InputPrimitive || m.Alpha[1] != InputNone {
		t.Errorf("Alpha = %v", m.Alpha)
	}
}

func TestMappingOverflow(t *testing.T) {
	p := Params{Cycles: [2]Cycle{
		{Color: eq(MuxPrimitive, MuxShade, MuxLODFraction, MuxEnvironment)},
		{Color: eq(MuxZeroAB, MuxZeroAB, MuxShadeAlpha, MuxZeroD)},
	}}
	if _, err := NewMapping(p, true, false); !errors.Is(err, ErrUnsupported) {
		t.Errorf("NewMapping() error = %v, want ErrUnsupported", err)
	}
	if _, err := NewMapping(p, false, false); err != nil {
		t.Errorf("NewMapping(one cycle) error = %v", err)
	}
}

func TestKey(t *testing.T) {
	opts := KeyOptions{Alpha: true, Filter: texture.FilterBilerp}
	a := NewKey(Textured, opts)
	b := NewKey(Textured, opts)
	if a != b || a.Hash() != b.Hash() {
		t.Errorf("equal inputs gave %v and %v", a, b)
	}
	if !a.Flags.Has(FlagTexture0 | FlagAlpha) {
		t.Errorf("Flags = %v", a.Flags)
	}

	other := Textured
	other.Cycles[0].Color[SlotD] = MuxShade
	c := NewKey(other, opts)
	if c == a || c.Hash() == a.Hash() {
		t.Errorf("one-field change kept key %v", c)
	}

	fog := NewKey(Textured, KeyOptions{Alpha: true, Fog: true, Filter: texture.FilterBilerp})
	if fog == a {
		t.Error("fog flag not part of key")
	}

	if k := NewKey(Shaded, opts); k.Filter != texture.FilterPoint {
		t.Errorf("untextured key kept filter %v", k.Filter)
	}
	if got := a.Params(); got != Textured {
		t.Errorf("Params() = %v, want %v", got, Textured)
	}
}

func TestGenerate(t *testing.T) {
	prog, err := Generate(NewKey(Modulate, KeyOptions{
		Alpha:          true,
		Fog:            true,
		AlphaThreshold: true,
		Filter:         texture.FilterBilerp,
	}))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, want := range []string{
		"fn " + VertexEntryPoint,
		"fn " + FragmentEntryPoint,
		"var tex0: texture_2d<f32>;",
		"textureDimensions(tex0, 0)",
		"@location(3) input1: vec4<f32>",
		"mix(rgb, u.fog_color.rgb, in.color.a)",
		"alpha < u.blend_color.a",
	} {
		if !strings.Contains(prog.Source, want) {
			t.Errorf("Source missing %q", want)
		}
	}
	if strings.Contains(prog.Source, "tex1") || strings.Contains(prog.Source, "random(") {
		t.Error("Source declares unused resources")
	}
}

func TestGenerateSimplifiesEqualOperands(t *testing.T) {
	p := Params{Cycles: [2]Cycle{{
		Color: eq(MuxPrimitive, MuxPrimitive, MuxShade, MuxEnvironment),
		Alpha: eq(AMuxZero, AMuxZero, AMuxZero, AMuxOne),
	}}}
	prog, err := Generate(NewKey(p, KeyOptions{}))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(prog.Source, "combined = vec4<f32>(in.input3, 1.0);") {
		t.Errorf("equal A and B not folded to D:\n%s", prog.Source)
	}
	if strings.Contains(prog.Source, "texture_2d") {
		t.Error("untextured program declares a texture")
	}
}

func TestGenerateNoiseAndDither(t *testing.T) {
	prog, err := Generate(NewKey(Shaded, KeyOptions{Alpha: true, AlphaDither: true}))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(prog.Source, "fn random(") || !strings.Contains(prog.Source, "floor(noise + 0.5)") {
		t.Errorf("dither program lacks noise:\n%s", prog.Source)
	}
}

func TestCompilerSharesPrograms(t *testing.T) {
	rec := backend.NewRecorder()
	c := NewCompiler(rec, 0, nil)

	k := NewKey(Textured, KeyOptions{})
	p1, err := c.Program(k)
	if err != nil {
		t.Fatalf("Program() error = %v", err)
	}
	p2, _ := c.Program(k)
	if p1 != p2 || p1.Handle == 0 {
		t.Errorf("Program() returned %p (handle %d) and %p", p1, p1.Handle, p2)
	}
	if got := rec.Stats().Programs; got != 1 {
		t.Errorf("compiled %d programs, want 1", got)
	}

	p3, _ := c.Program(NewKey(Shaded, KeyOptions{}))
	if p3.Handle == p1.Handle {
		t.Error("different keys share a handle")
	}
	if src, ok := rec.Program(p3.Handle); !ok || src != p3.Source {
		t.Error("backend did not receive the generated source")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCompilerRejectsCorrupt(t *testing.T) {
	c := NewCompiler(backend.NewRecorder(), 4, nil)
	k := Key{Combine: uint64(0x00FFFFFF&^(0xF<<20)|8<<20)<<32 | 0xFFFE793C}
	if _, err := c.Program(k); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Program() error = %v, want ErrCorrupt", err)
	}
	if c.Len() != 0 {
		t.Error("failed program was cached")
	}
}

func TestUniformBytes(t *testing.T) {
	u := Uniforms{PrimColor: [4]float32{1, 0, 0, 1}, FrameCount: 7}
	b := u.Bytes()
	if len(b) != UniformSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b), UniformSize)
	}
	if got := binary.LittleEndian.Uint32(b[108:]); got != 7 {
		t.Errorf("frame_count = %d, want 7", got)
	}
	if got := binary.LittleEndian.Uint32(b[0:]); got != 0x3F800000 {
		t.Errorf("prim_color.r bits = %#x", got)
	}
}

func BenchmarkGenerate(b *testing.B) {
	k := NewKey(Modulate, KeyOptions{Alpha: true, TwoCycle: true, Filter: texture.FilterBilerp})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Generate(k); err != nil {
			b.Fatal(err)
		}
	}
}
