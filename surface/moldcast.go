package surface

import (
	"fmt"
	"math"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/curve"
	"github.com/ungerik/go3d/float64/vec3"
)

// CastDirection selects which way mold rays leave the center curve.
type CastDirection int

const (
	// CastOutward shoots rays away from the curve, shaping a surface
	// from a mold that surrounds it.
	CastOutward CastDirection = iota
	// CastInward shoots rays the opposite way, for molds the curve
	// runs outside of.
	CastInward
)

func (d CastDirection) String() string {
	if d == CastInward {
		return "inward"
	}
	return "outward"
}

// MoldCastMap shapes a radius map on another surface: for every
// parameter pair a ray leaves the center curve radially and the
// distance to the mold becomes the map value. Directions where the
// mold is not hit fall back to a default map. Casting a cylinder with
// such a map reproduces the mold's shape around the curve.
type MoldCastMap struct {
	along    curve.Curve
	mold     Raytraceable
	fallback Map2D
	dir      CastDirection
}

var _ Map2D = (*MoldCastMap)(nil)

// NewMoldCastMap builds a radius map casting from along onto mold.
func NewMoldCastMap(along curve.Curve, mold Raytraceable, fallback Map2D, dir CastDirection) (*MoldCastMap, error) {
	if along == nil {
		return nil, fmt.Errorf("mold cast curve: %w", ErrNilComponent)
	}
	if mold == nil {
		return nil, fmt.Errorf("mold cast mold: %w", ErrNilComponent)
	}
	if fallback == nil {
		return nil, fmt.Errorf("mold cast fallback: %w", ErrNilComponent)
	}
	return &MoldCastMap{along: along, mold: mold, fallback: fallback, dir: dir}, nil
}

// At returns the distance from the curve to the mold along the radial
// direction of u at axis position v, or the fallback value when the
// ray misses.
func (m *MoldCastMap) At(uv UV) float64 {
	pos := m.along.PositionAt(uv[1])
	n := m.along.NormalAt(uv[1])
	b := m.along.BinormalAt(uv[1])
	rn := n.Scaled(math.Cos(uv[0]))
	rb := b.Scaled(math.Sin(uv[0]))
	radial := vec3.Add(&rn, &rb)
	if m.dir == CastInward {
		radial = radial.Scaled(-1)
	}
	s, ok := m.mold.RayIntersect(Ray{Origin: pos, Dir: radial})
	if !ok {
		return m.fallback.At(uv)
	}
	return s
}

func (m *MoldCastMap) String() string {
	return fmt.Sprintf("%v cast of %v", m.dir, m.mold)
}
