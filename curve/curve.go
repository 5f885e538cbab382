/*
Package curve models parametric curves in 3D space: line segments and
spatial cubic splines, both carrying a propagated reference frame
(tangent, normal, binormal) that surfaces wrap their cross-sections
around.

# BSD License

# Copyright (c) Freedom of Form Foundation

All rights reserved.

Please refer to the license file for more information.
*/
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"

	anatomy "github.com/Freedom-of-Form-Foundation/anatomy3d-sub000"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/fn"
)

// tracer writes to trace with key 'anatomy.geometry'
func tracer() tracing.Trace {
	return tracing.Select("anatomy.geometry")
}

var (
	// ErrDegenerateCurve flags a curve without a direction, e.g. a
	// line segment whose endpoints coincide.
	ErrDegenerateCurve = errors.New("degenerate curve has no direction")
	// ErrNilComponent flags a nil curve or spline argument.
	ErrNilComponent = errors.New("curve component must not be nil")
	// ErrMismatchedKnots flags component splines that do not share a
	// knot vector.
	ErrMismatchedKnots = errors.New("component splines must share their knot vector")
)

// Curve is a parametric curve in 3D space, parametrized over [0,1],
// with a reference frame at every point. At and PositionAt are
// synonyms; At exists so a Curve is usable wherever a continuous map
// into 3D space is expected.
//
// The frame convention is binormal = normal × tangent, all unit
// length. Frames vary continuously along the curve.
type Curve interface {
	At(t float64) vec3.T
	PositionAt(t float64) vec3.T
	TangentAt(t float64) vec3.T
	NormalAt(t float64) vec3.T
	BinormalAt(t float64) vec3.T
	Start() vec3.T
	End() vec3.T
}

// VectorMap adapts a curve to the continuous-map world: positions
// come back as world-space tagged vectors.
func VectorMap(c Curve) fn.Map[float64, anatomy.Vector] {
	if c == nil {
		panic(fmt.Errorf("%w: VectorMap(nil)", ErrNilComponent))
	}
	return vectorMap{c: c}
}

type vectorMap struct {
	c Curve
}

func (vm vectorMap) At(t float64) anatomy.Vector {
	return anatomy.VectorOf(vm.c.PositionAt(t))
}

// perpendicularTo returns a unit vector perpendicular to d, built by
// crossing d with the coordinate axis d is least aligned with. d must
// not be the zero vector.
func perpendicularTo(d vec3.T) vec3.T {
	ax, ay, az := math.Abs(d[0]), math.Abs(d[1]), math.Abs(d[2])
	axis := vec3.T{1, 0, 0}
	if ay <= ax && ay <= az {
		axis = vec3.T{0, 1, 0}
	} else if az <= ax && az <= ay {
		axis = vec3.T{0, 0, 1}
	}
	p := vec3.Cross(&d, &axis)
	p.Normalize()
	return p
}
