package util

import (
	"math"

	"golang.org/x/exp/rand"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

// BitMask. mask with the lowest `bits` bits set. bits must be in [0, 32].
func BitMask(bits int32) uint32 {
	if bits >= 32 {
		return math.MaxUint32
	}
	return uint32(1)<<uint32(bits) - 1
}

// PackBits. write the lowest `bits` bits of value into word at position shift, other bits of word stay untouched.
func PackBits(word int32, value uint32, shift, bits int32) int32 {
	mask := BitMask(bits) << uint32(shift)
	w := uint32(word)
	w = (w &^ mask) | ((value << uint32(shift)) & mask)
	return int32(w)
}

// UnpackBits. read `bits` bits of word starting at position shift.
func UnpackBits(word int32, shift, bits int32) uint32 {
	return (uint32(word) >> uint32(shift)) & BitMask(bits)
}

// BitsFor. number of bits needed to store values in [0, maxValue].
func BitsFor(maxValue uint64) int32 {
	bits := int32(0)
	for maxValue > 0 {
		bits++
		maxValue >>= 1
	}
	if bits == 0 {
		return 1
	}
	return bits
}

func Clamp(val, low, high float64) float64 {
	return math.Max(low, math.Min(high, val))
}

// GenerateRandomInt. random int in [min, max) drawn from rd.
func GenerateRandomInt(rd *rand.Rand, min, max int) int {
	return min + rd.Intn(max-min)
}

func AssertPanic(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
