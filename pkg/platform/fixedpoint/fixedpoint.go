// Package fixedpoint implements the scaled-integer arithmetic used by the
// compliance and score calculations. Ratios are expressed as integers scaled
// by Precision, and the multiplication always happens before the division so
// integer flooring loses as little precision as possible.
package fixedpoint

import "math/bits"

// Precision is the scaling factor for percentages and adjustment factors.
// An external adjustment factor of 0.6 arrives as 60.
const Precision = 100

// SatSub returns a-b, saturating at zero instead of wrapping.
func SatSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

// SatAdd returns a+b, saturating at the maximum uint64 instead of wrapping.
func SatAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return ^uint64(0)
	}
	return sum
}

// MulDiv returns floor(a*b/d) using a 128-bit intermediate product, so the
// multiply-before-divide contract holds even when a*b overflows 64 bits.
// The result saturates at the maximum uint64 when it cannot be represented.
// d must be non-zero; callers handle the zero-divisor policy themselves.
func MulDiv(a, b, d uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		// Quotient would not fit in 64 bits.
		return ^uint64(0)
	}
	quo, _ := bits.Div64(hi, lo, d)
	return quo
}

// ScalePercent returns floor(part*Precision/total): the integer percentage of
// part within total. total must be non-zero.
func ScalePercent(part, total uint64) uint64 {
	return MulDiv(part, Precision, total)
}
