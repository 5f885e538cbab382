package fn

import (
	"fmt"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/roots"
)

// === Polynomial Function Objects ===========================================

// Coefficients are stored lowest degree first, mirroring the argument
// order of the roots package.

// Constant is the function f(x) = c0, ignoring its input.
type Constant struct {
	C0 float64
}

// NewConstant wraps a value as a constant function.
func NewConstant(c0 float64) Constant {
	return Constant{C0: c0}
}

// At returns c0 for any x.
func (c Constant) At(float64) float64 {
	return c.C0
}

// DerivAt returns 0 for any x.
func (c Constant) DerivAt(float64) float64 {
	return 0
}

// NthDerivAt returns c0 for n = 0 and 0 beyond.
func (c Constant) NthDerivAt(x float64, n int) float64 {
	checkDerivOrder(n)
	if n == 0 {
		return c.C0
	}
	return 0
}

// SolveRaytrace intersects c0² = dist2(s), a plain quadratic in s.
func (c Constant) SolveRaytrace(dist2 Quadratic, x0, dx float64) []float64 {
	return roots.Quadratic(c.C0*c.C0-dist2.C0, -dist2.C1, -dist2.C2)
}

func (c Constant) String() string {
	return fmt.Sprintf("constant[%g]", c.C0)
}

// Quadratic is the function f(x) = c0 + c1·x + c2·x².
type Quadratic struct {
	C0, C1, C2 float64
}

// NewQuadratic builds a quadratic from coefficients, lowest degree first.
func NewQuadratic(c0, c1, c2 float64) Quadratic {
	return Quadratic{C0: c0, C1: c1, C2: c2}
}

// At evaluates by Horner's scheme.
func (q Quadratic) At(x float64) float64 {
	return q.C0 + x*(q.C1+x*q.C2)
}

// DerivAt returns c1 + 2·c2·x.
func (q Quadratic) DerivAt(x float64) float64 {
	return q.C1 + 2*q.C2*x
}

// NthDerivAt returns the n-th derivative at x.
func (q Quadratic) NthDerivAt(x float64, n int) float64 {
	checkDerivOrder(n)
	switch n {
	case 0:
		return q.At(x)
	case 1:
		return q.DerivAt(x)
	case 2:
		return 2 * q.C2
	}
	return 0
}

// Roots returns all real solutions of q(x) = 0.
func (q Quadratic) Roots() []float64 {
	return roots.Quadratic(q.C0, q.C1, q.C2)
}

// SolveRaytrace substitutes x(s) = x0 + s·dx, squares, and solves the
// resulting quartic q(x(s))² - dist2(s) = 0.
func (q Quadratic) SolveRaytrace(dist2 Quadratic, x0, dx float64) []float64 {
	c0, c1, c2, c3, c4 := q.alongLine(x0, dx).squareMinus(dist2)
	return roots.Quartic(c0, c1, c2, c3, c4)
}

func (q Quadratic) String() string {
	return fmt.Sprintf("quadratic[%g + %g x + %g x²]", q.C0, q.C1, q.C2)
}

// alongLine re-parametrizes q along x = x0 + s·dx, returning the
// quadratic in the ray parameter s.
func (q Quadratic) alongLine(x0, dx float64) Quadratic {
	return Quadratic{
		C0: q.C0 + q.C1*x0 + q.C2*x0*x0,
		C1: q.C1*dx + 2*q.C2*x0*dx,
		C2: q.C2 * dx * dx,
	}
}

// squareMinus expands q(s)² - d(s) into quartic coefficients.
func (q Quadratic) squareMinus(d Quadratic) (c0, c1, c2, c3, c4 float64) {
	c0 = q.C0*q.C0 - d.C0
	c1 = 2*q.C0*q.C1 - d.C1
	c2 = q.C1*q.C1 + 2*q.C0*q.C2 - d.C2
	c3 = 2 * q.C1 * q.C2
	c4 = q.C2 * q.C2
	return c0, c1, c2, c3, c4
}

// Cubic is the function f(x) = c0 + c1·x + c2·x² + c3·x³. Its square
// exceeds quartic degree, so it is derivable but not raytraceable.
type Cubic struct {
	C0, C1, C2, C3 float64
}

// NewCubic builds a cubic from coefficients, lowest degree first.
func NewCubic(c0, c1, c2, c3 float64) Cubic {
	return Cubic{C0: c0, C1: c1, C2: c2, C3: c3}
}

// At evaluates by Horner's scheme.
func (c Cubic) At(x float64) float64 {
	return c.C0 + x*(c.C1+x*(c.C2+x*c.C3))
}

// DerivAt returns c1 + 2·c2·x + 3·c3·x².
func (c Cubic) DerivAt(x float64) float64 {
	return c.C1 + x*(2*c.C2+x*3*c.C3)
}

// NthDerivAt returns the n-th derivative at x.
func (c Cubic) NthDerivAt(x float64, n int) float64 {
	checkDerivOrder(n)
	switch n {
	case 0:
		return c.At(x)
	case 1:
		return c.DerivAt(x)
	case 2:
		return 2*c.C2 + 6*c.C3*x
	case 3:
		return 6 * c.C3
	}
	return 0
}

// Roots returns all real solutions of c(x) = 0.
func (c Cubic) Roots() []float64 {
	return roots.Cubic(c.C0, c.C1, c.C2, c.C3)
}

func (c Cubic) String() string {
	return fmt.Sprintf("cubic[%g + %g x + %g x² + %g x³]", c.C0, c.C1, c.C2, c.C3)
}

// Quartic is the function f(x) = c0 + c1·x + ... + c4·x⁴, derivable
// but not raytraceable.
type Quartic struct {
	C0, C1, C2, C3, C4 float64
}

// NewQuartic builds a quartic from coefficients, lowest degree first.
func NewQuartic(c0, c1, c2, c3, c4 float64) Quartic {
	return Quartic{C0: c0, C1: c1, C2: c2, C3: c3, C4: c4}
}

// At evaluates by Horner's scheme.
func (q Quartic) At(x float64) float64 {
	return q.C0 + x*(q.C1+x*(q.C2+x*(q.C3+x*q.C4)))
}

// DerivAt returns the first derivative at x.
func (q Quartic) DerivAt(x float64) float64 {
	return q.C1 + x*(2*q.C2+x*(3*q.C3+x*4*q.C4))
}

// NthDerivAt returns the n-th derivative at x.
func (q Quartic) NthDerivAt(x float64, n int) float64 {
	checkDerivOrder(n)
	switch n {
	case 0:
		return q.At(x)
	case 1:
		return q.DerivAt(x)
	case 2:
		return 2*q.C2 + x*(6*q.C3+x*12*q.C4)
	case 3:
		return 6*q.C3 + 24*q.C4*x
	case 4:
		return 24 * q.C4
	}
	return 0
}

// Roots returns all real solutions of q(x) = 0.
func (q Quartic) Roots() []float64 {
	return roots.Quartic(q.C0, q.C1, q.C2, q.C3, q.C4)
}

func (q Quartic) String() string {
	return fmt.Sprintf("quartic[%g + %g x + %g x² + %g x³ + %g x⁴]",
		q.C0, q.C1, q.C2, q.C3, q.C4)
}

// Interface conformance, checked at compile time.
var (
	_ Raytraceable1D = Constant{}
	_ Raytraceable1D = Quadratic{}
	_ Derivable      = Cubic{}
	_ Derivable      = Quartic{}
)
