// Package bignum provides a small floating-point value whose magnitude can
// exceed any machine integer. Coordinates in a deep quadtree cover 2^k
// cells with k beyond 60; a mantissa plus binary exponent keeps their
// arithmetic exact as long as the mantissa fits one word.
package bignum

import "math"

const wordSize = 32

// BigFloat is a normalized mantissa * 2^exponent value. The zero value is
// the number zero.
type BigFloat struct {
	mantissa int32
	exponent int32
}

// New returns mantissa * 2^exponent, normalized.
func New(mantissa int32, exponent int32) BigFloat {
	v := BigFloat{mantissa: mantissa, exponent: exponent}
	v.normalize()
	return v
}

// FromInt returns the BigFloat representing v exactly when v fits a word.
func FromInt(v int) BigFloat {
	return New(int32(v), 0)
}

// FromFloat64 converts a finite float64, truncating excess precision.
func FromFloat64(v float64) BigFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic("bignum: conversion from non-finite float64")
	}
	frac, exp := math.Frexp(v)
	m := int32(frac * (1 << (wordSize - 1)))
	return New(m, int32(exp-(wordSize-1)))
}

// Exp2 returns 2^e.
func Exp2(e int) BigFloat {
	return New(1, int32(e))
}

func (v *BigFloat) normalize() {
	if v.mantissa == 0 {
		v.exponent = 0
		return
	}
	for v.mantissa&1 == 0 {
		v.mantissa >>= 1
		v.exponent++
	}
}

// unnormalize shifts the mantissa left as far as it goes without overflow,
// maximizing precision before an add.
func (v *BigFloat) unnormalize() {
	if v.mantissa == 0 {
		return
	}
	for {
		wide := int64(v.mantissa) << 1
		if int64(int32(wide)) != wide {
			return
		}
		v.mantissa = int32(wide)
		v.exponent--
	}
}

func tooBigForWord(v int64) bool {
	return int64(int32(v)) != v
}

// Float64 converts to the nearest float64.
func (v BigFloat) Float64() float64 {
	return math.Ldexp(float64(v.mantissa), int(v.exponent))
}

// Int converts by an arithmetic shift of the mantissa, so fractions round
// toward negative infinity. An exponent of a word or more gives 0; an
// exponent of minus a word or less gives 0 or -1 as in a right shift.
func (v BigFloat) Int() int {
	switch {
	case v.exponent <= -wordSize:
		if v.mantissa < 0 {
			return -1
		}
		return 0
	case v.exponent >= wordSize:
		return 0
	case v.exponent < 0:
		return int(v.mantissa >> -v.exponent)
	default:
		return int(v.mantissa) << v.exponent
	}
}

// Floor returns the largest integral BigFloat not greater than v.
func (v BigFloat) Floor() BigFloat {
	if v.exponent >= 0 {
		return v
	}
	if v.exponent <= -wordSize {
		if v.mantissa < 0 {
			return FromInt(-1)
		}
		return BigFloat{}
	}
	return New(v.mantissa>>-v.exponent, 0)
}

// Ceil returns the smallest integral BigFloat not less than v.
func (v BigFloat) Ceil() BigFloat {
	if v.exponent >= 0 {
		return v
	}
	if v.exponent <= -wordSize {
		if v.mantissa > 0 {
			return FromInt(1)
		}
		return BigFloat{}
	}
	return New(-(-v.mantissa >> -v.exponent), 0)
}

// Neg returns -v.
func (v BigFloat) Neg() BigFloat {
	return New(-v.mantissa, v.exponent)
}

// Abs returns the absolute value.
func (v BigFloat) Abs() BigFloat {
	if v.mantissa < 0 {
		return v.Neg()
	}
	return v
}

// Sign returns -1, 0 or 1 by the sign of v.
func (v BigFloat) Sign() int {
	switch {
	case v.mantissa < 0:
		return -1
	case v.mantissa > 0:
		return 1
	default:
		return 0
	}
}

// Add returns a + b. When the exponents differ by a word or more the
// smaller operand vanishes.
func (a BigFloat) Add(b BigFloat) BigFloat {
	if a.mantissa == 0 {
		return b
	}
	if b.mantissa == 0 {
		return a
	}
	a.unnormalize()
	b.unnormalize()
	maxExp := a.exponent
	if b.exponent > maxExp {
		maxExp = b.exponent
	}
	if maxExp-a.exponent >= wordSize {
		b.normalize()
		return b
	}
	if maxExp-b.exponent >= wordSize {
		a.normalize()
		return a
	}
	result := int64(a.mantissa>>(maxExp-a.exponent)) + int64(b.mantissa>>(maxExp-b.exponent))
	if tooBigForWord(result) {
		maxExp++
		result >>= 1
	}
	return New(int32(result), maxExp)
}

// Sub returns a - b.
func (a BigFloat) Sub(b BigFloat) BigFloat {
	return a.Add(b.Neg())
}

// Mul returns a * b, truncating the low bits that no longer fit.
func (a BigFloat) Mul(b BigFloat) BigFloat {
	exp := a.exponent + b.exponent
	result := int64(a.mantissa) * int64(b.mantissa)
	for tooBigForWord(result) {
		exp++
		result >>= 1
	}
	return New(int32(result), exp)
}

// Div returns a / b. The divisor must be nonzero.
func (a BigFloat) Div(b BigFloat) BigFloat {
	if b.mantissa == 0 {
		panic("bignum: division by zero")
	}
	result := int64(a.mantissa) << wordSize
	exp := a.exponent - b.exponent - wordSize
	result /= int64(b.mantissa)
	for tooBigForWord(result) {
		exp++
		result >>= 1
	}
	return New(int32(result), exp)
}

// Shl returns v * 2^e.
func (v BigFloat) Shl(e int) BigFloat {
	return New(v.mantissa, v.exponent+int32(e))
}

// Shr returns v / 2^e.
func (v BigFloat) Shr(e int) BigFloat {
	return v.Shl(-e)
}

// Cmp returns -1, 0 or 1 comparing a with b.
func (a BigFloat) Cmp(b BigFloat) int {
	return a.Sub(b).Sign()
}

// Less reports a < b.
func (a BigFloat) Less(b BigFloat) bool { return a.Cmp(b) < 0 }

// LessEq reports a <= b.
func (a BigFloat) LessEq(b BigFloat) bool { return a.Cmp(b) <= 0 }

// Greater reports a > b.
func (a BigFloat) Greater(b BigFloat) bool { return a.Cmp(b) > 0 }

// GreaterEq reports a >= b.
func (a BigFloat) GreaterEq(b BigFloat) bool { return a.Cmp(b) >= 0 }

// Eq reports a == b. Normalization makes representation unique, so field
// comparison suffices.
func (a BigFloat) Eq(b BigFloat) bool {
	return a.mantissa == b.mantissa && a.exponent == b.exponent
}
