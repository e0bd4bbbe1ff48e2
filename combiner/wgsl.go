package combiner

import (
	"fmt"
	"strings"

	"github.com/gogpu/rcp/backend"
	"github.com/gogpu/rcp/texture"
)

// Shader entry points of every generated program.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Bind group layout of generated programs.
const (
	TextureGroup   = 0
	UniformGroup   = 1
	Texture0Slot   = 0
	Sampler0Slot   = 1
	Texture1Slot   = 2
	Sampler1Slot   = 3
	UniformBinding = 0
)

// Vertex attribute locations. Input i (1-based) lives at
// InputLocation+i-1.
const (
	PositionLocation = 0
	ColorLocation    = 1
	UVLocation       = 2
	InputLocation    = 3
)

// Program is a generated shader program and the vertex inputs it expects.
type Program struct {
	Key     Key
	Label   string
	Source  string // WGSL
	Mapping Mapping
	Handle  backend.ProgramID
}

// Generate produces the WGSL source for a key.
func Generate(k Key) (*Program, error) {
	p := k.Params()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	twoCycle := k.Flags.Has(FlagTwoCycle)
	m, err := NewMapping(p, twoCycle, k.UseAlpha())
	if err != nil {
		return nil, err
	}

	g := &generator{key: k, params: p, mapping: m, twoCycle: twoCycle}
	g.emit()
	return &Program{
		Key:     k,
		Label:   "combiner " + k.String(),
		Source:  g.b.String(),
		Mapping: m,
	}, nil
}

type generator struct {
	b        strings.Builder
	key      Key
	params   Params
	mapping  Mapping
	twoCycle bool
}

func (g *generator) line(format string, args ...any) {
	fmt.Fprintf(&g.b, format, args...)
	g.b.WriteByte('\n')
}

func (g *generator) tex0() bool { return g.key.Flags.Has(FlagTexture0) }
func (g *generator) tex1() bool { return g.key.Flags.Has(FlagTexture1) }

func (g *generator) inputType() string {
	if g.mapping.UseAlpha {
		return "vec4<f32>"
	}
	return "vec3<f32>"
}

func (g *generator) usesNoise() bool {
	if g.mapping.UseAlpha && g.key.Flags.Has(FlagAlphaDither) {
		return true
	}
	cycles := 1
	if g.twoCycle {
		cycles = 2
	}
	for c := 0; c < cycles; c++ {
		if g.params.Uses(c, Noise) {
			return true
		}
	}
	return false
}

func (g *generator) emit() {
	g.emitDecls()
	g.emitVertex()
	if g.tex0() || g.tex1() {
		g.emitSamplers()
	}
	if g.usesNoise() {
		g.line("fn random(value: vec3<f32>) -> f32 {")
		g.line("    let r = dot(sin(value), vec3<f32>(12.9898, 78.233, 37.719));")
		g.line("    return fract(sin(r) * 143758.5453);")
		g.line("}")
		g.line("")
	}
	g.emitFragment()
}

func (g *generator) emitDecls() {
	g.line("struct Uniforms {")
	for _, f := range [...]string{"prim_color", "env_color", "blend_color", "fog_color", "key_center", "key_scale"} {
		g.line("    %s: vec4<f32>,", f)
	}
	g.line("    prim_lod_frac: f32,")
	g.line("    k4: f32,")
	g.line("    k5: f32,")
	g.line("    frame_count: u32,")
	g.line("    frame_height: f32,")
	g.line("}")
	g.line("")
	if g.tex0() {
		g.line("@group(%d) @binding(%d) var tex0: texture_2d<f32>;", TextureGroup, Texture0Slot)
		g.line("@group(%d) @binding(%d) var sampler0: sampler;", TextureGroup, Sampler0Slot)
	}
	if g.tex1() {
		g.line("@group(%d) @binding(%d) var tex1: texture_2d<f32>;", TextureGroup, Texture1Slot)
		g.line("@group(%d) @binding(%d) var sampler1: sampler;", TextureGroup, Sampler1Slot)
	}
	g.line("@group(%d) @binding(%d) var<uniform> u: Uniforms;", UniformGroup, UniformBinding)
	g.line("")

	textured := g.key.Textured()
	g.line("struct VertexInput {")
	g.line("    @location(%d) position: vec4<f32>,", PositionLocation)
	g.line("    @location(%d) color: vec4<f32>,", ColorLocation)
	if textured {
		g.line("    @location(%d) uv: vec2<f32>,", UVLocation)
	}
	for i := 1; i <= g.mapping.NumInputs; i++ {
		g.line("    @location(%d) input%d: %s,", InputLocation+i-1, i, g.inputType())
	}
	g.line("}")
	g.line("")
	g.line("struct VertexOutput {")
	g.line("    @builtin(position) position: vec4<f32>,")
	g.line("    @location(0) color: vec4<f32>,")
	if textured {
		g.line("    @location(1) uv: vec2<f32>,")
	}
	for i := 1; i <= g.mapping.NumInputs; i++ {
		g.line("    @location(%d) input%d: %s,", i+1, i, g.inputType())
	}
	g.line("}")
	g.line("")
}

func (g *generator) emitVertex() {
	g.line("@vertex")
	g.line("fn %s(in: VertexInput) -> VertexOutput {", VertexEntryPoint)
	g.line("    var out: VertexOutput;")
	g.line("    out.position = in.position;")
	g.line("    out.color = in.color;")
	if g.key.Textured() {
		g.line("    out.uv = in.uv;")
	}
	for i := 1; i <= g.mapping.NumInputs; i++ {
		g.line("    out.input%d = in.input%d;", i, i)
	}
	g.line("    return out;")
	g.line("}")
	g.line("")
}

// emitSamplers writes one sampling function per bound texture, following
// the filter of the key.
func (g *generator) emitSamplers() {
	for unit, used := range [2]bool{g.tex0(), g.tex1()} {
		if !used {
			continue
		}
		t := fmt.Sprintf("tex%d", unit)
		s := fmt.Sprintf("sampler%d", unit)
		g.line("fn sample%d(uv: vec2<f32>) -> vec4<f32> {", unit)
		switch g.key.Filter {
		case texture.FilterBilerp:
			g.line("    let size = vec2<f32>(textureDimensions(%s, 0));", t)
			g.line("    var offset = fract(uv * size - vec2<f32>(0.5, 0.5));")
			g.line("    offset = offset - vec2<f32>(step(1.0, offset.x + offset.y));")
			g.line("    let s0 = textureSample(%s, %s, uv - offset / size);", t, s)
			g.line("    let s1 = textureSample(%s, %s, uv - vec2<f32>(offset.x - sign(offset.x), offset.y) / size);", t, s)
			g.line("    let s2 = textureSample(%s, %s, uv - vec2<f32>(offset.x, offset.y - sign(offset.y)) / size);", t, s)
			g.line("    return s0 + abs(offset.x) * (s1 - s0) + abs(offset.y) * (s2 - s0);")
		case texture.FilterAverage:
			g.line("    let step_uv = vec2<f32>(0.5, 0.5) / vec2<f32>(textureDimensions(%s, 0));", t)
			g.line("    let a = textureSample(%s, %s, uv - step_uv);", t, s)
			g.line("    let b = textureSample(%s, %s, uv + vec2<f32>(step_uv.x, -step_uv.y));", t, s)
			g.line("    let c = textureSample(%s, %s, uv + vec2<f32>(-step_uv.x, step_uv.y));", t, s)
			g.line("    let d = textureSample(%s, %s, uv + step_uv);", t, s)
			g.line("    return (a + b + c + d) * 0.25;")
		default:
			g.line("    return textureSample(%s, %s, uv);", t, s)
		}
		g.line("}")
		g.line("")
	}
}

func (g *generator) emitFragment() {
	useAlpha := g.mapping.UseAlpha
	g.line("@fragment")
	g.line("fn %s(in: VertexOutput) -> @location(0) vec4<f32> {", FragmentEntryPoint)

	// Texel names seen by each cycle; one-cycle programs alias TEXEL1 to
	// unit 0 and the second cycle reads the units swapped.
	switch {
	case g.tex0() && g.tex1():
		g.line("    let t0 = sample0(in.uv);")
		g.line("    let t1 = sample1(in.uv);")
	case g.tex0():
		g.line("    let t0 = sample0(in.uv);")
		g.line("    let t1 = t0;")
	case g.tex1():
		g.line("    let t1 = sample1(in.uv);")
		g.line("    let t0 = t1;")
	default:
		g.line("    let t0 = vec4<f32>(0.0, 0.0, 0.0, 0.0);")
		g.line("    let t1 = t0;")
	}
	if g.usesNoise() {
		g.line("    let noise = random(vec3<f32>(floor(in.position.xy * (240.0 / u.frame_height)), f32(u.frame_count)));")
	}

	g.line("    var combined = vec4<f32>(0.5, 0.5, 0.5, 0.5);")
	cycles := 1
	if g.twoCycle {
		cycles = 2
	}
	for c := 0; c < cycles; c++ {
		rgb := g.equation(c, ChannelColor)
		alpha := "1.0"
		if useAlpha {
			alpha = g.equation(c, ChannelAlpha)
		}
		g.line("    combined = vec4<f32>(%s, %s);", rgb, alpha)
	}

	g.line("    var rgb = combined.rgb;")
	g.line("    let alpha = clamp(combined.a, 0.0, 1.0);")
	if g.key.Flags.Has(FlagFog) {
		g.line("    rgb = mix(rgb, u.fog_color.rgb, in.color.a);")
	}
	if useAlpha {
		if g.key.Flags.Has(FlagAlphaDither) {
			g.line("    if (alpha < floor(noise + 0.5)) {")
			g.line("        discard;")
			g.line("    }")
		}
		if g.key.Flags.Has(FlagAlphaThreshold) {
			g.line("    if (alpha < u.blend_color.a) {")
			g.line("        discard;")
			g.line("    }")
		}
		if g.key.Flags.Has(FlagTextureEdge) {
			g.line("    if (alpha < 0.125) {")
			g.line("        discard;")
			g.line("    }")
		}
	}
	g.line("    return vec4<f32>(clamp(rgb, vec3<f32>(0.0), vec3<f32>(1.0)), alpha);")
	g.line("}")
}

// equation renders (A-B)*C+D for one cycle and channel. When A and B read
// the same operand the product vanishes and only D remains.
func (g *generator) equation(cycle int, ch Channel) string {
	a := g.params.Operand(cycle, ch, SlotA)
	b := g.params.Operand(cycle, ch, SlotB)
	c := g.params.Operand(cycle, ch, SlotC)
	d := g.params.Operand(cycle, ch, SlotD)
	if a == b || c == Zero {
		return g.operand(cycle, ch, d)
	}
	return fmt.Sprintf("(%s - %s) * %s + %s",
		g.operand(cycle, ch, a), g.operand(cycle, ch, b),
		g.operand(cycle, ch, c), g.operand(cycle, ch, d))
}

// operand renders an operand as vec3<f32> for the color channel and f32
// for the alpha channel.
func (g *generator) operand(cycle int, ch Channel, op Operand) string {
	if slot := g.mapping.Slot(ch, op); slot > 0 {
		name := fmt.Sprintf("in.input%d", slot)
		if ch == ChannelAlpha {
			return name + ".a"
		}
		if g.mapping.UseAlpha {
			return name + ".rgb"
		}
		return name
	}

	// The second cycle sees the texture units swapped.
	texel0, texel1 := "t0", "t1"
	if cycle == 1 {
		texel0, texel1 = texel1, texel0
	}

	var scalar, vector string
	switch op {
	case Zero:
		scalar = "0.0"
	case One:
		scalar = "1.0"
	case Combined:
		scalar, vector = "combined.a", "combined.rgb"
	case CombinedAlpha:
		scalar = "combined.a"
	case Texel0:
		scalar, vector = texel0+".a", texel0+".rgb"
	case Texel0Alpha:
		scalar = texel0 + ".a"
	case Texel1:
		scalar, vector = texel1+".a", texel1+".rgb"
	case Texel1Alpha:
		scalar = texel1 + ".a"
	case Primitive:
		scalar, vector = "u.prim_color.a", "u.prim_color.rgb"
	case PrimitiveAlpha:
		scalar = "u.prim_color.a"
	case Environment:
		scalar, vector = "u.env_color.a", "u.env_color.rgb"
	case EnvironmentAlpha:
		scalar = "u.env_color.a"
	case Shade:
		scalar, vector = "in.color.a", "in.color.rgb"
	case Center:
		scalar, vector = "u.key_center.a", "u.key_center.rgb"
	case Scale:
		scalar, vector = "u.key_scale.a", "u.key_scale.rgb"
	case Noise:
		scalar = "noise"
	case K4:
		scalar = "u.k4"
	case K5:
		scalar = "u.k5"
	case PrimLODFraction:
		scalar = "u.prim_lod_frac"
	default:
		scalar = "0.0"
	}
	if ch == ChannelAlpha {
		return scalar
	}
	if vector != "" {
		return vector
	}
	return "vec3<f32>(" + scalar + ")"
}
