package fn

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("Expected panic, got none")
		}
	}()
	fn()
}

func mustPanicWith(t *testing.T, sentinel error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Error("Expected panic, got none")
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, sentinel) {
			t.Errorf("Expected panic wrapping %q, got %v", sentinel, r)
		}
	}()
	fn()
}

func sorted(rr []float64) []float64 {
	sort.Float64s(rr)
	return rr
}

// --- Tests -----------------------------------------------------------------

func TestConstantIgnoresArgument(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewConstant(2.5)
	if c.At(0) != 2.5 || c.At(-100) != 2.5 || c.At(math.Inf(1)) != 2.5 {
		t.Error("Expected constant to evaluate to 2.5 everywhere")
	}
	assert.Equal(t, 0.0, c.DerivAt(7))
	assert.Equal(t, 2.5, c.NthDerivAt(7, 0))
	assert.Equal(t, 0.0, c.NthDerivAt(7, 3))
}

func TestQuadraticEvaluation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q := NewQuadratic(1, -2, 3) // 1 - 2x + 3x²
	assert.InDelta(t, 9.0, q.At(2), 1e-12)
	assert.InDelta(t, 10.0, q.DerivAt(2), 1e-12)
	assert.InDelta(t, q.At(2), q.NthDerivAt(2, 0), 1e-12)
	assert.InDelta(t, 6.0, q.NthDerivAt(2, 2), 1e-12)
	assert.Equal(t, 0.0, q.NthDerivAt(2, 3))
}

func TestCubicAndQuarticDerivatives(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCubic(0, 0, 0, 1) // x³
	assert.InDelta(t, 8.0, c.At(2), 1e-12)
	assert.InDelta(t, 12.0, c.DerivAt(2), 1e-12)
	assert.InDelta(t, 12.0, c.NthDerivAt(2, 2), 1e-12)
	assert.InDelta(t, 6.0, c.NthDerivAt(2, 3), 1e-12)
	assert.Equal(t, 0.0, c.NthDerivAt(2, 4))

	q := NewQuartic(0, 0, 0, 0, 1) // x⁴
	assert.InDelta(t, 16.0, q.At(2), 1e-12)
	assert.InDelta(t, 32.0, q.DerivAt(2), 1e-12)
	assert.InDelta(t, 48.0, q.NthDerivAt(2, 2), 1e-12)
	assert.InDelta(t, 48.0, q.NthDerivAt(2, 3), 1e-12)
	assert.InDelta(t, 24.0, q.NthDerivAt(2, 4), 1e-12)
	assert.Equal(t, 0.0, q.NthDerivAt(2, 5))
}

func TestNegativeDerivativeOrderPanics(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	mustPanicWith(t, ErrDerivativeOrder, func() { NewConstant(1).NthDerivAt(0, -1) })
	mustPanicWith(t, ErrDerivativeOrder, func() { NewQuadratic(1, 1, 1).NthDerivAt(0, -1) })
	mustPanicWith(t, ErrDerivativeOrder, func() { NewCubic(1, 1, 1, 1).NthDerivAt(0, -2) })
	mustPanicWith(t, ErrDerivativeOrder, func() { NewQuartic(1, 1, 1, 1, 1).NthDerivAt(0, -1) })
}

func TestPolynomialRoots(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q := NewQuadratic(2, -3, 1) // (x-1)(x-2)
	rr := sorted(q.Roots())
	if len(rr) != 2 {
		t.Fatalf("Expected 2 roots, got %v", rr)
	}
	assert.InDelta(t, 1.0, rr[0], 1e-9)
	assert.InDelta(t, 2.0, rr[1], 1e-9)

	c := NewCubic(-6, 11, -6, 1) // (x-1)(x-2)(x-3)
	rr = sorted(c.Roots())
	if len(rr) != 3 {
		t.Fatalf("Expected 3 roots, got %v", rr)
	}
	assert.InDelta(t, 1.0, rr[0], 1e-7)
	assert.InDelta(t, 2.0, rr[1], 1e-7)
	assert.InDelta(t, 3.0, rr[2], 1e-7)

	p := NewQuartic(4, 0, -5, 0, 1) // (x²-1)(x²-4)
	rr = sorted(p.Roots())
	if len(rr) != 4 {
		t.Fatalf("Expected 4 roots, got %v", rr)
	}
	assert.InDelta(t, -2.0, rr[0], 1e-7)
	assert.InDelta(t, -1.0, rr[1], 1e-7)
	assert.InDelta(t, 1.0, rr[2], 1e-7)
	assert.InDelta(t, 2.0, rr[3], 1e-7)
}

func TestConstantRaytrace(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// Radius 2 against squared distance (s-3)² + 1 = s² - 6s + 10.
	c := NewConstant(2)
	dist2 := NewQuadratic(10, -6, 1)
	ss := sorted(c.SolveRaytrace(dist2, 0, 1))
	if len(ss) != 2 {
		t.Fatalf("Expected 2 solutions, got %v", ss)
	}
	assert.InDelta(t, 3-math.Sqrt(3), ss[0], 1e-9)
	assert.InDelta(t, 3+math.Sqrt(3), ss[1], 1e-9)
}

func TestQuadraticRaytraceResiduals(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// f(x) = 0.5x² + 1 against constant squared distance 4: f is
	// positive, so only f = 2 contributes, at x = ±√2.
	q := NewQuadratic(1, 0, 0.5)
	dist2 := NewQuadratic(4, 0, 0)
	x0, dx := -1.0, 0.5
	ss := sorted(q.SolveRaytrace(dist2, x0, dx))
	if len(ss) != 2 {
		t.Fatalf("Expected 2 solutions, got %v", ss)
	}
	for _, s := range ss {
		x := x0 + s*dx
		f := q.At(x)
		assert.InDelta(t, dist2.At(s), f*f, 1e-8, "solution s = %g is not on the surface", s)
	}
	assert.InDelta(t, (-math.Sqrt2+1)/0.5, ss[0], 1e-9)
	assert.InDelta(t, (math.Sqrt2+1)/0.5, ss[1], 1e-9)
}

func TestWrappersAndComposition(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	double := OfFunc(func(x float64) float64 { return 2 * x })
	plus1 := OfFunc(func(x float64) float64 { return x + 1 })
	both := Compose[float64, float64, float64](double, plus1)
	assert.Equal(t, 7.0, both.At(3)) // 2·3 + 1

	c := Const[string, int](42)
	assert.Equal(t, 42, c.At("ignored"))

	sh := Shifted(double, 1) // 2(x-1)
	assert.Equal(t, 4.0, sh.At(3))
	sc := Scaled(double, -1) // -2x
	assert.Equal(t, -6.0, sc.At(3))
}

func TestNilMapsPanic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	mustPanicWith(t, ErrNilMap, func() { OfFunc[float64, float64](nil) })
	mustPanicWith(t, ErrNilMap, func() {
		Compose[float64, float64, float64](nil, Const[float64, float64](1))
	})
	mustPanicWith(t, ErrNilMap, func() {
		Compose[float64, float64, float64](Const[float64, float64](1), nil)
	})
}

func TestPolynomialStrings(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Contains(t, NewConstant(3).String(), "3")
	s := NewQuadratic(1, -2, 3).String()
	assert.Contains(t, s, "quadratic")
	assert.Contains(t, s, "-2")
}
