package anatomy

import "math"

// === Real Data Type ========================================================

// Real is a floating point number with two comparison regimes. Plain
// operators keep IEEE-754 semantics, so NaN != NaN and arithmetic
// propagates NaN and infinities untouched. Equals and Compare, in
// contrast, are reflexive and total: NaN equals NaN and orders before
// every other value, which is what sorted containers keyed by Real
// expect.
type Real float64

// Float unwraps r.
func (r Real) Float() float64 {
	return float64(r)
}

// IsNaN is a predicate: is r not a number?
func (r Real) IsNaN() bool {
	return math.IsNaN(float64(r))
}

// IsInf is a predicate: is r an infinity of either sign?
func (r Real) IsInf() bool {
	return math.IsInf(float64(r), 0)
}

// Finite is a predicate: is r neither NaN nor infinite?
func (r Real) Finite() bool {
	return !r.IsNaN() && !r.IsInf()
}

// Equals is the reflexive equality: NaN.Equals(NaN) is true, 0 equals
// -0. This deliberately differs from ==.
func (r Real) Equals(s Real) bool {
	return r.Compare(s) == 0
}

// Compare is a total order over all float64 values: NaN first, then
// -Inf, finite values ascending, +Inf. Returns -1, 0 or +1.
func (r Real) Compare(s Real) int {
	switch {
	case r.IsNaN() && s.IsNaN():
		return 0
	case r.IsNaN():
		return -1
	case s.IsNaN():
		return 1
	case float64(r) < float64(s):
		return -1
	case float64(r) > float64(s):
		return 1
	}
	return 0
}

// RealComparator adapts Compare to the comparator contract of the
// gods containers, so a treemap can be keyed by Real.
func RealComparator(a, b interface{}) int {
	return a.(Real).Compare(b.(Real))
}

// === Tri-Valued Truthiness =================================================

// The original engine overloaded boolean operators on its number type.
// Named functions are the portable spelling of the same tri-valued
// logic: zero is false, non-zero is true, NaN is neither.

// Truthy is a predicate: is r a definite non-zero value?
func Truthy(r Real) bool {
	return !r.IsNaN() && float64(r) != 0
}

// Falsy is a predicate: is r a definite zero?
func Falsy(r Real) bool {
	return float64(r) == 0
}

// Not negates r logically: Not(0) = 1, Not(x) = 0 for definite x != 0,
// and Not(NaN) stays NaN.
func Not(r Real) Real {
	if r.IsNaN() {
		return r
	}
	if float64(r) == 0 {
		return 1
	}
	return 0
}
