package curve

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/floats"

	anatomy "github.com/Freedom-of-Form-Foundation/anatomy3d-sub000"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/fn"
)

// FrameSubsteps is the number of frame propagation steps per knot
// interval. More steps track fast-turning curves at the cost of
// construction time.
var FrameSubsteps = 4

// SpatialCubicSpline interpolates 3D points with three natural cubic
// splines sharing one knot vector. The curve parameter t in [0,1] maps
// affinely onto the knot span.
//
// Reference frames are fixed at construction: the frame is propagated
// along the knot span so the normal never flips across an inflection,
// then the normal components are themselves stored as cubic splines.
// NormalAt interpolates those and re-orthonormalizes against the
// tangent.
type SpatialCubicSpline struct {
	x, y, z    *fn.CubicSpline
	lo, hi     float64
	nx, ny, nz *fn.CubicSpline
}

// NewSpatialCubicSpline combines three component splines into a
// curve. The splines must share their knot vector exactly.
func NewSpatialCubicSpline(x, y, z *fn.CubicSpline) (*SpatialCubicSpline, error) {
	if x == nil || y == nil || z == nil {
		return nil, fmt.Errorf("%w: need x, y and z splines", ErrNilComponent)
	}
	ks := x.Knots()
	if err := sameKnots(ks, y.Knots()); err != nil {
		return nil, err
	}
	if err := sameKnots(ks, z.Knots()); err != nil {
		return nil, err
	}
	sp := &SpatialCubicSpline{x: x, y: y, z: z, lo: ks[0], hi: ks[len(ks)-1]}
	sp.propagateFrames(ks)
	tracer().Debugf("spatial cubic spline over %d knots, frames propagated", len(ks))
	return sp, nil
}

// SpatialCubicSplineThrough interpolates the given points at the
// given parameter values. ts must be strictly increasing and as long
// as points.
func SpatialCubicSplineThrough(ts []float64, points []vec3.T) (*SpatialCubicSpline, error) {
	if len(ts) != len(points) {
		return nil, fmt.Errorf("%w: %d parameters for %d points",
			ErrMismatchedKnots, len(ts), len(points))
	}
	xs := make([]anatomy.Pair, len(ts))
	ys := make([]anatomy.Pair, len(ts))
	zs := make([]anatomy.Pair, len(ts))
	for i, t := range ts {
		xs[i] = anatomy.P(t, points[i][0])
		ys[i] = anatomy.P(t, points[i][1])
		zs[i] = anatomy.P(t, points[i][2])
	}
	x, err := fn.NewCubicSpline(xs)
	if err != nil {
		return nil, err
	}
	y, err := fn.NewCubicSpline(ys)
	if err != nil {
		return nil, err
	}
	z, err := fn.NewCubicSpline(zs)
	if err != nil {
		return nil, err
	}
	return NewSpatialCubicSpline(x, y, z)
}

// MustSpatialCubicSplineThrough is like SpatialCubicSplineThrough but
// panics on invalid input.
func MustSpatialCubicSplineThrough(ts []float64, points []vec3.T) *SpatialCubicSpline {
	sp, err := SpatialCubicSplineThrough(ts, points)
	if err != nil {
		panic(err)
	}
	return sp
}

func sameKnots(a, b []float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d vs %d knots", ErrMismatchedKnots, len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("%w: knot %d is %g vs %g", ErrMismatchedKnots, i, a[i], b[i])
		}
	}
	return nil
}

// propagateFrames walks the knot span in FrameSubsteps steps per
// interval, carrying the frame: each step's normal is the cross of
// the new tangent with the previous binormal, which keeps consecutive
// normals on the same side of the curve. The normal components become
// knots of three cubic splines.
func (sp *SpatialCubicSpline) propagateFrames(ks []float64) {
	us := make([]float64, 0, (len(ks)-1)*FrameSubsteps+1)
	span := make([]float64, FrameSubsteps+1)
	for j := 0; j+1 < len(ks); j++ {
		floats.Span(span, ks[j], ks[j+1])
		if j == 0 {
			us = append(us, span...)
		} else {
			us = append(us, span[1:]...)
		}
	}
	tan := sp.tangentAtU(us[0])
	normal := perpendicularTo(tan)
	binormal := vec3.Cross(&normal, &tan)
	nx := make([]anatomy.Pair, 0, len(us))
	ny := make([]anatomy.Pair, 0, len(us))
	nz := make([]anatomy.Pair, 0, len(us))
	nx = append(nx, anatomy.P(us[0], normal[0]))
	ny = append(ny, anatomy.P(us[0], normal[1]))
	nz = append(nz, anatomy.P(us[0], normal[2]))
	for _, u := range us[1:] {
		tan = sp.tangentAtU(u)
		n := vec3.Cross(&tan, &binormal)
		n.Normalize()
		b := vec3.Cross(&n, &tan)
		b.Normalize()
		normal, binormal = n, b
		nx = append(nx, anatomy.P(u, normal[0]))
		ny = append(ny, anatomy.P(u, normal[1]))
		nz = append(nz, anatomy.P(u, normal[2]))
	}
	sp.nx = fn.MustCubicSpline(nx...)
	sp.ny = fn.MustCubicSpline(ny...)
	sp.nz = fn.MustCubicSpline(nz...)
}

// param maps the curve parameter t in [0,1] onto the knot span.
func (sp *SpatialCubicSpline) param(t float64) float64 {
	return sp.lo + t*(sp.hi-sp.lo)
}

func (sp *SpatialCubicSpline) tangentAtU(u float64) vec3.T {
	d := vec3.T{sp.x.DerivAt(u), sp.y.DerivAt(u), sp.z.DerivAt(u)}
	d.Normalize()
	return d
}

// At is a synonym for PositionAt.
func (sp *SpatialCubicSpline) At(t float64) vec3.T {
	return sp.PositionAt(t)
}

// PositionAt evaluates the component splines. t outside [0,1] panics
// with fn.ErrOutOfDomain.
func (sp *SpatialCubicSpline) PositionAt(t float64) vec3.T {
	u := sp.param(t)
	return vec3.T{sp.x.At(u), sp.y.At(u), sp.z.At(u)}
}

// TangentAt returns the unit tangent.
func (sp *SpatialCubicSpline) TangentAt(t float64) vec3.T {
	return sp.tangentAtU(sp.param(t))
}

// NormalAt returns the propagated unit normal, re-orthonormalized
// against the tangent.
func (sp *SpatialCubicSpline) NormalAt(t float64) vec3.T {
	u := sp.param(t)
	tan := sp.tangentAtU(u)
	n := vec3.T{sp.nx.At(u), sp.ny.At(u), sp.nz.At(u)}
	proj := tan.Scaled(vec3.Dot(&n, &tan))
	n = vec3.Sub(&n, &proj)
	n.Normalize()
	return n
}

// BinormalAt returns normal × tangent.
func (sp *SpatialCubicSpline) BinormalAt(t float64) vec3.T {
	n := sp.NormalAt(t)
	tan := sp.TangentAt(t)
	b := vec3.Cross(&n, &tan)
	b.Normalize()
	return b
}

// Start returns the position at t = 0.
func (sp *SpatialCubicSpline) Start() vec3.T {
	return sp.PositionAt(0)
}

// End returns the position at t = 1.
func (sp *SpatialCubicSpline) End() vec3.T {
	return sp.PositionAt(1)
}

// SpeedAt returns |dP/dt|, with the affine knot-span scaling folded
// in.
func (sp *SpatialCubicSpline) SpeedAt(t float64) float64 {
	u := sp.param(t)
	d := vec3.T{sp.x.DerivAt(u), sp.y.DerivAt(u), sp.z.DerivAt(u)}
	return d.Length() * (sp.hi - sp.lo)
}

func (sp *SpatialCubicSpline) String() string {
	return fmt.Sprintf("spatial cubic spline over [%g,%g]", sp.lo, sp.hi)
}

var _ Curve = (*SpatialCubicSpline)(nil)
