package combiner

import (
	"encoding/binary"
	"math"
)

// UniformSize is the byte size of the Uniforms block in WGSL layout.
const UniformSize = 128

// Uniforms mirrors the Uniforms struct of generated programs. Colors are
// normalized to 0..1.
type Uniforms struct {
	PrimColor   [4]float32
	EnvColor    [4]float32
	BlendColor  [4]float32
	FogColor    [4]float32
	KeyCenter   [4]float32
	KeyScale    [4]float32
	PrimLODFrac float32
	K4          float32
	K5          float32
	FrameCount  uint32
	FrameHeight float32
}

// AppendBytes appends the std140-compatible encoding of u to b.
func (u *Uniforms) AppendBytes(b []byte) []byte {
	for _, v := range [...][4]float32{u.PrimColor, u.EnvColor, u.BlendColor, u.FogColor, u.KeyCenter, u.KeyScale} {
		for _, f := range v {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
	}
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(u.PrimLODFrac))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(u.K4))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(u.K5))
	b = binary.LittleEndian.AppendUint32(b, u.FrameCount)
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(u.FrameHeight))
	// Pad to the struct alignment.
	for i := 6*16 + 5*4; i < UniformSize; i++ {
		b = append(b, 0)
	}
	return b
}

// Bytes returns the encoded uniform block.
func (u *Uniforms) Bytes() []byte {
	return u.AppendBytes(make([]byte, 0, UniformSize))
}
