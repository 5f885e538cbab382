/*
Package surface models anatomical part boundaries as parametric
surfaces: tubes around a center curve, hemispherical caps, capsules
stitched from both, corrugated plates and implicit isosurfaces. Every
surface maps a parameter pair (u,v) to world space and can tessellate
itself into a mesh; some can additionally intersect rays analytically,
which is the basis for mold casting one surface onto another.

# BSD License

# Copyright (c) Freedom of Form Foundation

All rights reserved.

Please refer to the license file for more information.
*/
package surface

import (
	"errors"
	"fmt"
	"math"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/fn"
	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'anatomy.geometry'
func tracer() tracing.Trace {
	return tracing.Select("anatomy.geometry")
}

// NormalStep is the parameter-space step for numeric surface normals.
var NormalStep = 1e-5

var (
	// ErrNilComponent flags a nil axis, radius map, height function or
	// field passed to a surface constructor.
	ErrNilComponent = errors.New("surface component is nil")
	// ErrDegenerateSurface flags surface parameters without extent, like
	// an empty angular range or a zero scan radius.
	ErrDegenerateSurface = errors.New("degenerate surface")
	// ErrBadResolution flags non-positive tessellation resolutions.
	// Buffer methods trace it and degrade to empty buffers rather than
	// failing.
	ErrBadResolution = errors.New("tessellation resolution must be positive")
)

// emptyAt reports whether a resolution request degenerates to empty
// buffers, tracing the offending values.
func emptyAt(resU, resV int) bool {
	if resU > 0 && resV > 0 {
		return false
	}
	tracer().Infof("%v: %dx%d", ErrBadResolution, resU, resV)
	return true
}

// UV is a point in the parameter domain of a surface, u first. For
// surfaces of revolution u is the angle and v runs along the axis.
type UV [2]float64

// U returns the first parameter.
func (uv UV) U() float64 { return uv[0] }

// V returns the second parameter.
func (uv UV) V() float64 { return uv[1] }

func (uv UV) String() string {
	return fmt.Sprintf("(%g,%g)", uv[0], uv[1])
}

// Map2D is a scalar field over the parameter domain, used for radius
// and height maps.
type Map2D = fn.Map[UV, float64]

// ConstMap2D is a map with the same value everywhere.
func ConstMap2D(c float64) Map2D {
	return fn.Const[UV](c)
}

// LiftU turns a one-dimensional function into a map that reads only
// the u parameter. LiftU panics for a nil argument.
func LiftU(f fn.Fn) Map2D {
	if f == nil {
		panic(fmt.Errorf("lifting a function over u: %w", fn.ErrNilMap))
	}
	return liftU{f}
}

// LiftV turns a one-dimensional function into a map that reads only
// the v parameter. LiftV panics for a nil argument.
func LiftV(f fn.Fn) Map2D {
	if f == nil {
		panic(fmt.Errorf("lifting a function over v: %w", fn.ErrNilMap))
	}
	return liftV{f}
}

// Offset shifts every value of a map by a constant. Offset panics for
// a nil argument.
func Offset(m Map2D, d float64) Map2D {
	if m == nil {
		panic(fmt.Errorf("offsetting: %w", fn.ErrNilMap))
	}
	return offsetMap{m, d}
}

type liftU struct{ f fn.Fn }

func (l liftU) At(uv UV) float64 { return l.f.At(uv[0]) }

type liftV struct{ f fn.Fn }

func (l liftV) At(uv UV) float64 { return l.f.At(uv[1]) }

type offsetMap struct {
	m Map2D
	d float64
}

func (o offsetMap) At(uv UV) float64 { return o.m.At(uv) + o.d }

// Surface is a parametric surface patch in world space.
type Surface interface {
	// At returns the world position for a parameter pair.
	At(uv UV) vec3.T
	// NormalAt returns the unit surface normal, oriented outward for
	// closed surfaces.
	NormalAt(uv UV) vec3.T
}

// Ray is a half line. Dir need not be unit length; intersection
// parameters are in units of Dir.
type Ray struct {
	Origin vec3.T
	Dir    vec3.T
}

// At returns the point at parameter s along the ray.
func (r Ray) At(s float64) vec3.T {
	d := r.Dir.Scaled(s)
	return vec3.Add(&r.Origin, &d)
}

// Raytraceable is a surface that can intersect rays exactly. The
// returned parameter is the smallest s >= 0 with Ray.At(s) on the
// surface; ok is false for a miss.
type Raytraceable interface {
	Surface
	RayIntersect(r Ray) (float64, bool)
}

// numericNormal estimates the normal at uv from central-difference
// tangents, clamping the stencil to the given parameter rectangle so
// surfaces with bounded maps stay inside their domain. The result is
// unit length and oriented along du x dv; callers fix the sign.
func numericNormal(s Surface, uv UV, umin, umax, vmin, vmax float64) vec3.T {
	ulo := clamp(uv[0]-NormalStep, umin, umax)
	uhi := clamp(uv[0]+NormalStep, umin, umax)
	vlo := clamp(uv[1]-NormalStep, vmin, vmax)
	vhi := clamp(uv[1]+NormalStep, vmin, vmax)
	pu0 := s.At(UV{ulo, uv[1]})
	pu1 := s.At(UV{uhi, uv[1]})
	pv0 := s.At(UV{uv[0], vlo})
	pv1 := s.At(UV{uv[0], vhi})
	du := vec3.Sub(&pu1, &pu0)
	dv := vec3.Sub(&pv1, &pv0)
	n := vec3.Cross(&du, &dv)
	n.Normalize()
	return n
}

// orientAlong flips n if it points against ref.
func orientAlong(n, ref vec3.T) vec3.T {
	if vec3.Dot(&n, &ref) < 0 {
		return n.Scaled(-1)
	}
	return n
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}
