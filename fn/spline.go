package fn

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"

	anatomy "github.com/Freedom-of-Form-Foundation/anatomy3d-sub000"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/roots"
)

// === Knot Backbone =========================================================

// knots is the shared backbone of every spline kind: parallel slices of
// strictly increasing abscissae and the values interpolated there.
// Segment j spans the half-open interval (xs[j], xs[j+1]].
type knots struct {
	xs, ys []float64
}

// makeKnots validates and unzips control points. Points must be at
// least two, sorted by strictly increasing x.
func makeKnots(points []anatomy.Pair) (knots, error) {
	switch len(points) {
	case 0:
		return knots{}, fmt.Errorf("%w: a spline needs control points", ErrNoControlPoints)
	case 1:
		return knots{}, fmt.Errorf("%w: a spline needs at least two control points",
			ErrSingleControlPoint)
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.F()
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] == xs[i-1] {
			return knots{}, fmt.Errorf("%w: x = %g appears twice", ErrDuplicateKnot, xs[i])
		}
		if !(xs[i] > xs[i-1]) {
			return knots{}, fmt.Errorf("%w: x = %g after x = %g",
				ErrUnsortedControlPoints, xs[i], xs[i-1])
		}
	}
	anatomy.AssertFinite("spline knots", xs...)
	anatomy.AssertFinite("spline values", ys...)
	return knots{xs: xs, ys: ys}, nil
}

// pairsOfMap flattens a gods treemap into ordered control points. Keys
// and values may be anatomy.Real or float64 (ints are tolerated for
// convenience); anything else is an ErrPointType.
func pairsOfMap(m *treemap.Map) ([]anatomy.Pair, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil point map", ErrNoControlPoints)
	}
	points := make([]anatomy.Pair, 0, m.Size())
	it := m.Iterator()
	for it.Next() {
		x, err := floatOf(it.Key())
		if err != nil {
			return nil, err
		}
		y, err := floatOf(it.Value())
		if err != nil {
			return nil, err
		}
		points = append(points, anatomy.P(x, y))
	}
	return points, nil
}

func floatOf(v interface{}) (float64, error) {
	switch n := v.(type) {
	case anatomy.Real:
		return n.Float(), nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: cannot use %T as a control point coordinate", ErrPointType, v)
}

// segment locates the index j of the segment (xs[j], xs[j+1]]
// containing x. An exact hit on the leftmost knot resolves to the
// first segment; every other exact knot hit resolves to the segment
// ending at that knot. x outside the knot range panics.
func (k knots) segment(x float64) int {
	if math.IsNaN(x) {
		panic(fmt.Errorf("%w: cannot evaluate a spline at NaN", ErrOutOfDomain))
	}
	last := len(k.xs) - 1
	if x < k.xs[0] {
		panic(fmt.Errorf("%w: x = %g is below the leftmost knot %g", ErrOutOfDomain, x, k.xs[0]))
	}
	if x > k.xs[last] {
		panic(fmt.Errorf("%w: x = %g is above the rightmost knot %g", ErrOutOfDomain, x, k.xs[last]))
	}
	j := sort.SearchFloat64s(k.xs, x)
	if j == 0 {
		j = 1
	}
	return j - 1
}

// keepInSegment drops ray parameters whose input coordinate
// x(s) = x0 + s·dx falls outside (xs[j], xs[j+1]]. Roots produced by
// segment j's polynomial are only valid inside segment j.
func (k knots) keepInSegment(ss []float64, j int, x0, dx float64) []float64 {
	kept := ss[:0]
	for _, s := range ss {
		x := x0 + s*dx
		if x > k.xs[j] && x <= k.xs[j+1] {
			kept = append(kept, s)
		}
	}
	return kept
}

// Knots returns a copy of the abscissae.
func (k knots) Knots() []float64 {
	xs := make([]float64, len(k.xs))
	copy(xs, k.xs)
	return xs
}

// Values returns a copy of the interpolated values.
func (k knots) Values() []float64 {
	ys := make([]float64, len(k.ys))
	copy(ys, k.ys)
	return ys
}

// Domain returns the inclusive evaluation bounds.
func (k knots) Domain() (lo, hi float64) {
	return k.xs[0], k.xs[len(k.xs)-1]
}

func (k knots) String() string {
	var b strings.Builder
	for i, x := range k.xs {
		if i > 0 {
			b.WriteString(" .. ")
		}
		fmt.Fprintf(&b, "(%g,%g)", x, k.ys[i])
	}
	return b.String()
}

// === Linear Spline =========================================================

// LinearSpline is a piecewise straight-line interpolant. It is the
// cheapest raytraceable spline: substitution never exceeds degree 2.
type LinearSpline struct {
	knots
	slopes []float64
}

// NewLinearSpline interpolates the given control points piecewise
// linearly.
func NewLinearSpline(points []anatomy.Pair) (*LinearSpline, error) {
	k, err := makeKnots(points)
	if err != nil {
		tracer().Errorf("linear spline: %v", err)
		return nil, err
	}
	slopes := make([]float64, len(k.xs)-1)
	for j := range slopes {
		slopes[j] = (k.ys[j+1] - k.ys[j]) / (k.xs[j+1] - k.xs[j])
	}
	return &LinearSpline{knots: k, slopes: slopes}, nil
}

// NewLinearSplineOfMap builds a linear spline from a treemap keyed by
// anatomy.Real (see NewCubicSplineOfMap).
func NewLinearSplineOfMap(m *treemap.Map) (*LinearSpline, error) {
	points, err := pairsOfMap(m)
	if err != nil {
		return nil, err
	}
	return NewLinearSpline(points)
}

// MustLinearSpline is like NewLinearSpline but panics on invalid
// control points. Intended for literals in tests and setup code.
func MustLinearSpline(points ...anatomy.Pair) *LinearSpline {
	sp, err := NewLinearSpline(points)
	if err != nil {
		panic(err)
	}
	return sp
}

// At evaluates the interpolant. x outside the knot range panics with
// ErrOutOfDomain.
func (sp *LinearSpline) At(x float64) float64 {
	j := sp.segment(x)
	return sp.ys[j] + sp.slopes[j]*(x-sp.xs[j])
}

// DerivAt returns the slope of the segment containing x.
func (sp *LinearSpline) DerivAt(x float64) float64 {
	return sp.slopes[sp.segment(x)]
}

// NthDerivAt returns the n-th derivative at x. Above the first all
// derivatives vanish.
func (sp *LinearSpline) NthDerivAt(x float64, n int) float64 {
	checkDerivOrder(n)
	switch n {
	case 0:
		return sp.At(x)
	case 1:
		return sp.DerivAt(x)
	}
	sp.segment(x) // domain check still applies
	return 0
}

// SolveRaytrace substitutes x(s) = x0 + s·dx into each segment line,
// solves p(x(s))² = dist2(s) per segment and keeps solutions inside
// the originating segment.
func (sp *LinearSpline) SolveRaytrace(dist2 Quadratic, x0, dx float64) []float64 {
	var hits []float64
	for j := range sp.slopes {
		l0 := sp.ys[j] + sp.slopes[j]*(x0-sp.xs[j])
		l1 := sp.slopes[j] * dx
		ss := roots.Quadratic(l0*l0-dist2.C0, 2*l0*l1-dist2.C1, l1*l1-dist2.C2)
		hits = append(hits, sp.keepInSegment(ss, j, x0, dx)...)
	}
	return hits
}

func (sp *LinearSpline) String() string {
	return "linear spline " + sp.knots.String()
}

// === Quadratic Spline ======================================================

// QuadraticSpline is a piecewise parabolic interpolant with continuous
// first derivative at interior knots. It trades the cubic spline's
// curvature continuity for raytraceability: squaring a segment stays
// within quartic degree.
type QuadraticSpline struct {
	knots
	segs []Quadratic // in local coordinates u = x - xs[j]
}

// NewQuadraticSpline interpolates the control points with parabolic
// segments. The first segment is a straight line; each following
// segment matches the previous one's derivative at the shared knot.
func NewQuadraticSpline(points []anatomy.Pair) (*QuadraticSpline, error) {
	k, err := makeKnots(points)
	if err != nil {
		tracer().Errorf("quadratic spline: %v", err)
		return nil, err
	}
	n := len(k.xs) - 1
	segs := make([]Quadratic, n)
	h0 := k.xs[1] - k.xs[0]
	segs[0] = Quadratic{C0: k.ys[0], C1: (k.ys[1] - k.ys[0]) / h0, C2: 0}
	for j := 1; j < n; j++ {
		h := k.xs[j+1] - k.xs[j]
		hPrev := k.xs[j] - k.xs[j-1]
		b := segs[j-1].C1 + 2*segs[j-1].C2*hPrev
		segs[j] = Quadratic{
			C0: k.ys[j],
			C1: b,
			C2: (k.ys[j+1] - k.ys[j] - b*h) / (h * h),
		}
	}
	tracer().Debugf("quadratic spline over %d knots assembled", len(k.xs))
	return &QuadraticSpline{knots: k, segs: segs}, nil
}

// NewQuadraticSplineOfMap builds a quadratic spline from a treemap
// keyed by anatomy.Real (see NewCubicSplineOfMap).
func NewQuadraticSplineOfMap(m *treemap.Map) (*QuadraticSpline, error) {
	points, err := pairsOfMap(m)
	if err != nil {
		return nil, err
	}
	return NewQuadraticSpline(points)
}

// MustQuadraticSpline is like NewQuadraticSpline but panics on invalid
// control points.
func MustQuadraticSpline(points ...anatomy.Pair) *QuadraticSpline {
	sp, err := NewQuadraticSpline(points)
	if err != nil {
		panic(err)
	}
	return sp
}

// At evaluates the interpolant. x outside the knot range panics with
// ErrOutOfDomain.
func (sp *QuadraticSpline) At(x float64) float64 {
	j := sp.segment(x)
	return sp.segs[j].At(x - sp.xs[j])
}

// DerivAt returns the first derivative at x.
func (sp *QuadraticSpline) DerivAt(x float64) float64 {
	j := sp.segment(x)
	return sp.segs[j].DerivAt(x - sp.xs[j])
}

// NthDerivAt returns the n-th derivative at x.
func (sp *QuadraticSpline) NthDerivAt(x float64, n int) float64 {
	checkDerivOrder(n)
	j := sp.segment(x)
	return sp.segs[j].NthDerivAt(x-sp.xs[j], n)
}

// SolveRaytrace substitutes the ray into each segment parabola in its
// local coordinates, solves the resulting quartic and keeps solutions
// inside the originating segment.
func (sp *QuadraticSpline) SolveRaytrace(dist2 Quadratic, x0, dx float64) []float64 {
	var hits []float64
	for j := range sp.segs {
		c0, c1, c2, c3, c4 := sp.segs[j].alongLine(x0-sp.xs[j], dx).squareMinus(dist2)
		ss := roots.Quartic(c0, c1, c2, c3, c4)
		hits = append(hits, sp.keepInSegment(ss, j, x0, dx)...)
	}
	return hits
}

func (sp *QuadraticSpline) String() string {
	return "quadratic spline " + sp.knots.String()
}

// === Cubic Spline ==========================================================

// CubicSpline is a natural cubic interpolant: curvature is continuous
// at interior knots and vanishes at both ends. Squaring a cubic
// exceeds quartic degree, so cubic splines are not raytraceable.
type CubicSpline struct {
	knots
	segs []Cubic // in local coordinates u = x - xs[j]
}

// NewCubicSpline interpolates the control points with a natural cubic
// spline. The knot second derivatives solve a tridiagonal system,
// handled by the Thomas algorithm.
func NewCubicSpline(points []anatomy.Pair) (*CubicSpline, error) {
	k, err := makeKnots(points)
	if err != nil {
		tracer().Errorf("cubic spline: %v", err)
		return nil, err
	}
	n := len(k.xs)
	h := make([]float64, n-1)
	for j := range h {
		h[j] = k.xs[j+1] - k.xs[j]
	}
	m := make([]float64, n) // knot second derivatives, ends stay zero
	if n > 2 {
		in := n - 2
		sub := make([]float64, in)
		diag := make([]float64, in)
		sup := make([]float64, in)
		rhs := make([]float64, in)
		for i := 0; i < in; i++ {
			j := i + 1
			sub[i] = h[j-1]
			diag[i] = 2 * (h[j-1] + h[j])
			sup[i] = h[j]
			rhs[i] = 6 * ((k.ys[j+1]-k.ys[j])/h[j] - (k.ys[j]-k.ys[j-1])/h[j-1])
		}
		copy(m[1:], thomas(sub, diag, sup, rhs))
	}
	segs := make([]Cubic, n-1)
	for j := range segs {
		segs[j] = Cubic{
			C0: k.ys[j],
			C1: (k.ys[j+1]-k.ys[j])/h[j] - h[j]*(2*m[j]+m[j+1])/6,
			C2: m[j] / 2,
			C3: (m[j+1] - m[j]) / (6 * h[j]),
		}
	}
	tracer().Debugf("natural cubic spline over %d knots assembled", n)
	return &CubicSpline{knots: k, segs: segs}, nil
}

// NewCubicSplineOfMap builds a cubic spline from a gods treemap. The
// treemap must iterate in increasing key order, which an
// anatomy.RealComparator map guarantees.
func NewCubicSplineOfMap(m *treemap.Map) (*CubicSpline, error) {
	points, err := pairsOfMap(m)
	if err != nil {
		return nil, err
	}
	return NewCubicSpline(points)
}

// MustCubicSpline is like NewCubicSpline but panics on invalid control
// points.
func MustCubicSpline(points ...anatomy.Pair) *CubicSpline {
	sp, err := NewCubicSpline(points)
	if err != nil {
		panic(err)
	}
	return sp
}

// At evaluates the interpolant. x outside the knot range panics with
// ErrOutOfDomain.
func (sp *CubicSpline) At(x float64) float64 {
	j := sp.segment(x)
	return sp.segs[j].At(x - sp.xs[j])
}

// DerivAt returns the first derivative at x.
func (sp *CubicSpline) DerivAt(x float64) float64 {
	j := sp.segment(x)
	return sp.segs[j].DerivAt(x - sp.xs[j])
}

// NthDerivAt returns the n-th derivative at x.
func (sp *CubicSpline) NthDerivAt(x float64, n int) float64 {
	checkDerivOrder(n)
	j := sp.segment(x)
	return sp.segs[j].NthDerivAt(x-sp.xs[j], n)
}

// Segment returns the cubic active on the segment containing x,
// in local coordinates u = x - knot. Curve construction uses it to
// avoid re-deriving coefficients.
func (sp *CubicSpline) Segment(x float64) (c Cubic, knot float64) {
	j := sp.segment(x)
	return sp.segs[j], sp.xs[j]
}

func (sp *CubicSpline) String() string {
	return "cubic spline " + sp.knots.String()
}

// thomas solves a tridiagonal system in place. sub[i] multiplies
// x[i-1] and sup[i] multiplies x[i+1]; sub[0] and sup[n-1] are unused.
// Strictly increasing knots make the spline system diagonally
// dominant, so no pivoting is needed.
func thomas(sub, diag, sup, rhs []float64) []float64 {
	n := len(diag)
	if n == 0 {
		return nil
	}
	for i := 1; i < n; i++ {
		w := sub[i] / diag[i-1]
		diag[i] -= w * sup[i-1]
		rhs[i] -= w * rhs[i-1]
	}
	x := make([]float64, n)
	x[n-1] = rhs[n-1] / diag[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = (rhs[i] - sup[i]*x[i+1]) / diag[i]
	}
	return x
}

// Interface conformance, checked at compile time.
var (
	_ Raytraceable1D = (*LinearSpline)(nil)
	_ Raytraceable1D = (*QuadraticSpline)(nil)
	_ Derivable      = (*CubicSpline)(nil)
)
