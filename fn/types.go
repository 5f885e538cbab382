package fn

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'anatomy.numeric'
func tracer() tracing.Trace {
	return tracing.Select("anatomy.numeric")
}

var (
	// ErrNoControlPoints indicates spline construction from an empty point set.
	ErrNoControlPoints = errors.New("spline has no control points")
	// ErrSingleControlPoint indicates spline construction from one point; two are the minimum.
	ErrSingleControlPoint = errors.New("spline has a single control point, need at least 2")
	// ErrUnsortedControlPoints indicates control points out of knot order.
	ErrUnsortedControlPoints = errors.New("spline control points must be sorted by location")
	// ErrDuplicateKnot indicates two control points sharing a location.
	ErrDuplicateKnot = errors.New("spline control points contain a duplicate location")
	// ErrPointType indicates a treemap entry that is neither anatomy.Real nor float64.
	ErrPointType = errors.New("control point map entries must be anatomy.Real or float64")
	// ErrOutOfDomain indicates evaluation outside the knot range. Splines never extrapolate.
	ErrOutOfDomain = errors.New("argument outside the spline domain")
	// ErrDerivativeOrder indicates a negative derivative order.
	ErrDerivativeOrder = errors.New("derivative order must not be negative")
	// ErrNilMap indicates composing or wrapping a nil map/function.
	ErrNilMap = errors.New("map must not be nil")
	// ErrPointRemoved indicates use of a control point handle after removal.
	ErrPointRemoved = errors.New("control point has been removed from its curve")
)

// Map is a continuous mapping from In to Out. Evaluation is the sole
// required operation; everything beyond it (derivatives, raytrace
// solving) is an additional capability of concrete types.
type Map[In, Out any] interface {
	At(in In) Out
}

// Fn is the scalar 1D specialization most of this package works with.
type Fn = Map[float64, float64]

// Derivable is a 1D function with derivatives of every order. The 0th
// derivative equals the function value.
type Derivable interface {
	Fn
	// DerivAt returns the first derivative at x.
	DerivAt(x float64) float64
	// NthDerivAt returns the n-th derivative at x; n = 0 evaluates the
	// function itself. Negative n panics.
	NthDerivAt(x float64, n int) float64
}

// Raytraceable1D is a derivable function f whose square can be
// intersected with a ray analytically. SolveRaytrace receives the
// squared distance from the revolution axis along the ray as a
// quadratic dist2(s), plus the linear parametrization x(s) = x0 + s·dx
// of f's input coordinate along the ray, and returns every real s with
//
//	f(x(s))² = dist2(s)
//
// unordered and unfiltered by sign. Callers pick the hit they want
// (usually the smallest nonnegative s within further bounds).
type Raytraceable1D interface {
	Derivable
	SolveRaytrace(dist2 Quadratic, x0, dx float64) []float64
}

// === Explicit Wrappers =====================================================

// The original engine implicitly coerced bare values and function
// pointers into continuous maps. These are the explicit spellings.

type constant[In, Out any] struct {
	v Out
}

func (c constant[In, Out]) At(In) Out {
	return c.v
}

// Const wraps a bare value as a map that ignores its input. For the
// derivable/raytraceable scalar constant see Constant.
func Const[In, Out any](v Out) Map[In, Out] {
	return constant[In, Out]{v: v}
}

type funcMap[In, Out any] struct {
	f func(In) Out
}

func (m funcMap[In, Out]) At(x In) Out {
	return m.f(x)
}

// OfFunc wraps a plain function as a map. A nil function is a contract
// violation and panics.
func OfFunc[In, Out any](f func(In) Out) Map[In, Out] {
	if f == nil {
		panic(fmt.Errorf("%w: OfFunc(nil)", ErrNilMap))
	}
	return funcMap[In, Out]{f: f}
}

type composed[A, B, C any] struct {
	inner Map[A, B]
	outer Map[B, C]
}

func (m composed[A, B, C]) At(x A) C {
	return m.outer.At(m.inner.At(x))
}

// Compose chains two maps; the result evaluates outer(inner(x)). Nil
// arguments are a contract violation and panic.
func Compose[A, B, C any](inner Map[A, B], outer Map[B, C]) Map[A, C] {
	if inner == nil || outer == nil {
		panic(fmt.Errorf("%w: Compose needs both maps", ErrNilMap))
	}
	return composed[A, B, C]{inner: inner, outer: outer}
}

// Shifted moves f along its argument axis: the result evaluates
// f(x - dx).
func Shifted(f Fn, dx float64) Fn {
	if f == nil {
		panic(fmt.Errorf("%w: Shifted(nil)", ErrNilMap))
	}
	return funcMap[float64, float64]{f: func(x float64) float64 {
		return f.At(x - dx)
	}}
}

// Scaled scales f in value: the result evaluates k·f(x).
func Scaled(f Fn, k float64) Fn {
	if f == nil {
		panic(fmt.Errorf("%w: Scaled(nil)", ErrNilMap))
	}
	return funcMap[float64, float64]{f: func(x float64) float64 {
		return k * f.At(x)
	}}
}

// checkDerivOrder guards the NthDerivAt contract.
func checkDerivOrder(n int) {
	if n < 0 {
		panic(fmt.Errorf("%w: got %d", ErrDerivativeOrder, n))
	}
}
