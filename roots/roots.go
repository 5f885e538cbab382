/*
Package roots finds the real roots of quadratic, cubic and quartic
equations in closed form: the quadratic formula, Cardano's method with
complex intermediates, and Ferrari's resolvent construction. The
solvers feed the spline raytracing machinery, where every ray/segment
intersection reduces to a polynomial of degree four or less.

Coefficients are given lowest degree first. A nearly vanishing leading
coefficient falls through to the next lower degree, and the cubic and
quartic solvers then polish the substitute roots with a bounded
Newton-Raphson pass against the original polynomial. Roots with a
non-negligible imaginary part are discarded; a tiny imaginary part is
treated as numerical noise and only the real part is kept.

# BSD License

# Copyright (c) Freedom of Form Foundation

All rights reserved.

Please refer to the license file for more information.
*/
package roots

import (
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"

	anatomy "github.com/Freedom-of-Form-Foundation/anatomy3d-sub000"
)

// tracer writes to trace with key 'anatomy.numeric'
func tracer() tracing.Trace {
	return tracing.Select("anatomy.numeric")
}

// DegenerateEps bounds a leading coefficient considered zero; below it
// the solver of the next lower degree takes over.
var DegenerateEps float64 = 0.005

// ImagEps bounds the imaginary part of a complex root still accepted
// as a real root (keeping its real part). Larger imaginary parts mean
// the root is genuinely complex and it is dropped.
var ImagEps float64 = 0.05

// RefineSteps is the number of Newton-Raphson iterations applied to
// roots obtained through a lower-degree fallback.
var RefineSteps int = 16

// Quadratic returns all real roots of c0 + c1·x + c2·x², lowest degree
// first. A double root is reported twice; no real roots yield an empty
// result, never an error.
func Quadratic(c0, c1, c2 float64) []float64 {
	anatomy.AssertFinite("quadratic coefficients", c0, c1, c2)
	if math.Abs(c2) < DegenerateEps {
		if math.Abs(c1) < DegenerateEps {
			return nil
		}
		tracer().Debugf("quadratic degenerates to linear, |c2|=%g", math.Abs(c2))
		return keepFinite([]float64{-c0 / c1})
	}
	disc := c1*c1 - 4*c2*c0
	if disc < 0 {
		// A conjugate pair; keep both real parts if the pair sits
		// within noise distance of the real axis.
		if math.Sqrt(-disc)/(2*math.Abs(c2)) >= ImagEps {
			return nil
		}
		re := -c1 / (2 * c2)
		return keepFinite([]float64{re, re})
	}
	sq := math.Sqrt(disc)
	return keepFinite([]float64{
		(-c1 + sq) / (2 * c2),
		(-c1 - sq) / (2 * c2),
	})
}

// Cubic returns all real roots of c0 + c1·x + c2·x² + c3·x³.
func Cubic(c0, c1, c2, c3 float64) []float64 {
	anatomy.AssertFinite("cubic coefficients", c0, c1, c2, c3)
	if math.Abs(c3) < DegenerateEps {
		tracer().Debugf("cubic degenerates to quadratic, |c3|=%g", math.Abs(c3))
		return refine(Quadratic(c0, c1, c2), c0, c1, c2, c3)
	}
	rts := cubicRoots(complex(c2/c3, 0), complex(c1/c3, 0), complex(c0/c3, 0))
	return keepFinite(filterReal(rts[:]))
}

// Quartic returns all real roots of c0 + c1·x + c2·x² + c3·x³ + c4·x⁴.
func Quartic(c0, c1, c2, c3, c4 float64) []float64 {
	anatomy.AssertFinite("quartic coefficients", c0, c1, c2, c3, c4)
	if math.Abs(c4) < DegenerateEps {
		tracer().Debugf("quartic degenerates to cubic, |c4|=%g", math.Abs(c4))
		return refine(Cubic(c0, c1, c2, c3), c0, c1, c2, c3, c4)
	}
	// Depress: x = y - a/4 turns the monic quartic into y⁴ + py² + qy + r.
	a := c3 / c4
	b := c2 / c4
	c := c1 / c4
	d := c0 / c4
	p := b - 3*a*a/8
	q := c - a*b/2 + a*a*a/8
	r := d - a*c/4 + a*a*b/16 - 3*a*a*a*a/256

	// Ferrari: a root z of the resolvent z³ + 2pz² + (p²-4r)z - q² = 0
	// yields α = √z and the split into two quadratics. z = 0 (q = 0)
	// is the biquadratic case, solved directly in y².
	var ys []complex128
	res := cubicRoots(complex(2*p, 0), complex(p*p-4*r, 0), complex(-q*q, 0))
	z := res[0]
	for _, cand := range res[1:] {
		if cmplx.Abs(cand) > cmplx.Abs(z) {
			z = cand
		}
	}
	if cmplx.Abs(z) < 1e-12 {
		disc := cmplx.Sqrt(complex(p*p-4*r, 0))
		for _, z2 := range []complex128{(-complex(p, 0) + disc) / 2, (-complex(p, 0) - disc) / 2} {
			y := cmplx.Sqrt(z2)
			ys = append(ys, y, -y)
		}
	} else {
		alpha := cmplx.Sqrt(z)
		beta := (complex(p, 0) + z - complex(q, 0)/alpha) / 2
		gamma := (complex(p, 0) + z + complex(q, 0)/alpha) / 2
		ys = append(ys, quadraticRootsC(beta, alpha)...)
		ys = append(ys, quadraticRootsC(gamma, -alpha)...)
	}
	shift := complex(a/4, 0)
	xs := make([]complex128, 0, 4)
	for _, y := range ys {
		xs = append(xs, y-shift)
	}
	return keepFinite(filterReal(xs))
}

// cubicRoots returns the three complex roots of x³ + ax² + bx + c,
// Cardano's construction on the depressed cubic. Of the two cube-root
// operands -q/2 ± √disc the larger one is used, avoiding cancellation
// on the ill-conditioned branch.
func cubicRoots(a, b, c complex128) [3]complex128 {
	p := b - a*a/3
	q := 2*a*a*a/27 - a*b/3 + c
	disc := cmplx.Sqrt(q*q/4 + p*p*p/27)
	s := -q/2 + disc
	if s2 := -q/2 - disc; cmplx.Abs(s2) > cmplx.Abs(s) {
		s = s2
	}
	var rts [3]complex128
	if cmplx.Abs(s) == 0 { // p = q = 0, triple root
		for k := range rts {
			rts[k] = -a / 3
		}
		return rts
	}
	u := cmplx.Pow(s, 1.0/3.0)
	w := complex(-0.5, math.Sqrt(3)/2)
	uk := u
	for k := 0; k < 3; k++ {
		rts[k] = uk - p/(3*uk) - a/3
		uk *= w
	}
	return rts
}

// quadraticRootsC returns both complex roots of y² + c1·y + c0.
func quadraticRootsC(c0, c1 complex128) []complex128 {
	disc := cmplx.Sqrt(c1*c1 - 4*c0)
	return []complex128{(-c1 + disc) / 2, (-c1 - disc) / 2}
}

// filterReal keeps the real parts of roots close enough to the real
// axis and drops genuinely complex ones.
func filterReal(rts []complex128) []float64 {
	out := make([]float64, 0, len(rts))
	for _, z := range rts {
		if math.Abs(imag(z)) < ImagEps {
			out = append(out, real(z))
		}
	}
	return out
}

// refine polishes candidate roots with RefineSteps Newton-Raphson
// iterations against the full polynomial. Roots borrowed from a
// lower-degree solve carry residual error relative to the original
// equation; a few Newton steps move them back onto it.
func refine(cand []float64, coeffs ...float64) []float64 {
	for i, x := range cand {
		for n := 0; n < RefineSteps; n++ {
			f, df := horner(x, coeffs)
			if df == 0 {
				break
			}
			x -= f / df
		}
		cand[i] = x
	}
	return keepFinite(cand)
}

// horner evaluates the polynomial and its derivative at x in one pass.
func horner(x float64, coeffs []float64) (f, df float64) {
	for i := len(coeffs) - 1; i >= 0; i-- {
		df = df*x + f
		f = f*x + coeffs[i]
	}
	return f, df
}

func keepFinite(rts []float64) []float64 {
	anatomy.AssertFinite("solver roots", rts...)
	return rts
}
