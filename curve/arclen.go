package curve

import (
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/integrate/quad"
)

// GaussNodes is the Gauss-Legendre node count for arc length
// integration. 16 nodes are exact to machine precision for polynomial
// speeds up to degree 31.
var GaussNodes = 16

// DiffStep is the step for the central-difference speed fallback.
var DiffStep = 1e-6

// Speeder is implemented by curves that know their parametric speed
// |dP/dt| in closed form. Arc length integration falls back to a
// central difference of PositionAt otherwise.
type Speeder interface {
	SpeedAt(t float64) float64
}

// Length returns the arc length of the whole curve.
func Length(c Curve) float64 {
	return LengthBetween(c, 0, 1)
}

// LengthBetween returns the arc length between two parameter values.
// The order of the bounds does not matter; the result is nonnegative.
func LengthBetween(c Curve, t0, t1 float64) float64 {
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	if t0 == t1 {
		return 0
	}
	return quad.Fixed(speedOf(c), t0, t1, GaussNodes, quad.Legendre{}, 0)
}

func speedOf(c Curve) func(float64) float64 {
	if s, ok := c.(Speeder); ok {
		return s.SpeedAt
	}
	return func(t float64) float64 {
		// Clamp the stencil to [0,1]: curves may reject parameters
		// outside their domain.
		lo, hi := t-DiffStep, t+DiffStep
		if lo < 0 {
			lo = 0
		}
		if hi > 1 {
			hi = 1
		}
		a := c.PositionAt(lo)
		b := c.PositionAt(hi)
		return vec3.Distance(&a, &b) / (hi - lo)
	}
}
