package value

import (
	"strconv"

	"github.com/x448/float16"
)

// Half is an IEEE 754 binary16 value, stored as its bit pattern.
type Half uint16

// HalfFromFloat32 rounds f to the nearest half, ties to even.
func HalfFromFloat32(f float32) Half {
	return Half(float16.Fromfloat32(f).Bits())
}

func (h Half) Float32() float32 {
	return float16.Frombits(uint16(h)).Float32()
}

func (h Half) String() string {
	return strconv.FormatFloat(float64(h.Float32()), 'g', -1, 32)
}
