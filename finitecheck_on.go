//go:build finitecheck

package anatomy

import (
	"fmt"
	"math"
)

// FiniteChecks is true in verification builds (build tag 'finitecheck').
const FiniteChecks = true

// AssertFinite panics if any value is NaN or infinite. Verification
// builds call this on solver inputs/outputs, spline coefficients and
// vector elements; a non-finite value there is a programming error,
// not a recoverable condition.
func AssertFinite(what string, vals ...float64) {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("%s: value %d of %d is not finite (%g)", what, i+1, len(vals), v))
		}
	}
}
