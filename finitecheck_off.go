//go:build !finitecheck

package anatomy

// FiniteChecks is true in verification builds (build tag 'finitecheck').
const FiniteChecks = false

// AssertFinite is compiled out in production builds; non-finite values
// propagate per IEEE-754 and callers must tolerate NaN from degenerate
// geometry. Build with -tags finitecheck to enable the assertions.
func AssertFinite(what string, vals ...float64) {}
