package rsp

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"
)

// Matrix is a 4x4 matrix stored row-major in an f32.Mat4 (m[4*row+col]).
//
// The RSP uses the row-vector convention: a point p is transformed as
// p' = p·M, so translation lives in the fourth row and composing "apply A
// then B" is A·B.
type Matrix f32.Mat4

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at row r, column c.
func (m Matrix) At(r, c int) float32 { return m[4*r+c] }

// Mul returns the product m·b.
func (m Matrix) Mul(b Matrix) Matrix {
	var out Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[4*i+j] = m[4*i]*b[j] + m[4*i+1]*b[4+j] + m[4*i+2]*b[8+j] + m[4*i+3]*b[12+j]
		}
	}
	return out
}

// Transform maps a model-space point to clip space.
func (m Matrix) Transform(x, y, z float32) f32.Vec4 {
	return f32.Vec4{
		x*m[0] + y*m[4] + z*m[8] + m[12],
		x*m[1] + y*m[5] + z*m[9] + m[13],
		x*m[2] + y*m[6] + z*m[10] + m[14],
		x*m[3] + y*m[7] + z*m[11] + m[15],
	}
}

// TransposedMul multiplies v by the transpose of the upper-left 3x3 block.
// Light directions are brought into model space this way.
func (m Matrix) TransposedMul(v f32.Vec3) f32.Vec3 {
	return f32.Vec3{
		v[0]*m[0] + v[1]*m[1] + v[2]*m[2],
		v[0]*m[4] + v[1]*m[5] + v[2]*m[6],
		v[0]*m[8] + v[1]*m[9] + v[2]*m[10],
	}
}

// FromFixedPoint decodes the 16-word S15.16 matrix format. The first eight
// words hold the integer halves of the sixteen elements, packed two per
// word, and the last eight hold the fractional halves in the same order.
func FromFixedPoint(words [16]int32) Matrix {
	var m Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j += 2 {
			integer := uint32(words[i*2+j/2])
			frac := uint32(words[8+i*2+j/2])

			m[4*i+j] = float32(int32(integer&0xFFFF0000|frac>>16)) / 65536
			m[4*i+j+1] = float32(int32(integer<<16|frac&0xFFFF)) / 65536
		}
	}
	return m
}

// DecodeFixedPoint reads a 64-byte fixed-point matrix.
func DecodeFixedPoint(b []byte, order binary.ByteOrder) Matrix {
	var words [16]int32
	for i := range words {
		words[i] = int32(order.Uint32(b[i*4:]))
	}
	return FromFixedPoint(words)
}

// ToFixedPoint is the inverse of FromFixedPoint, rounding toward negative
// infinity to the nearest 1/65536.
func (m Matrix) ToFixedPoint() [16]int32 {
	var words [16]int32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j += 2 {
			a := uint32(int32(math.Floor(float64(m[4*i+j]) * 65536)))
			b := uint32(int32(math.Floor(float64(m[4*i+j+1]) * 65536)))
			words[i*2+j/2] = int32(a&0xFFFF0000 | b>>16)
			words[8+i*2+j/2] = int32(a<<16 | b&0xFFFF)
		}
	}
	return words
}

func normalize(v f32.Vec3) f32.Vec3 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l == 0 {
		return v
	}
	return f32.Vec3{v[0] / l, v[1] / l, v[2] / l}
}
