package surface

import (
	"fmt"
	"math"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/curve"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/fn"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/mesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// SymmetricCylinder is a tube of revolution around a straight axis
// whose radius profile depends only on the axis position v. The
// restriction buys exact ray intersection: in the axis frame the
// squared distance of a ray from the axis is a quadratic in the ray
// parameter, which the radius profile can solve against analytically.
type SymmetricCylinder struct {
	*Cylinder
	line    *curve.LineSegment
	profile fn.Raytraceable1D
}

var _ Raytraceable = (*SymmetricCylinder)(nil)
var _ mesh.Source = (*SymmetricCylinder)(nil)

// NewSymmetricCylinder builds a full tube of revolution around the
// straight axis with the given radius profile over v in [0,1].
func NewSymmetricCylinder(axis *curve.LineSegment, radius fn.Raytraceable1D) (*SymmetricCylinder, error) {
	if axis == nil {
		return nil, fmt.Errorf("symmetric cylinder axis: %w", ErrNilComponent)
	}
	if radius == nil {
		return nil, fmt.Errorf("symmetric cylinder radius: %w", ErrNilComponent)
	}
	cyl, err := NewCylinder(axis, LiftV(radius))
	if err != nil {
		return nil, err
	}
	return &SymmetricCylinder{Cylinder: cyl, line: axis, profile: radius}, nil
}

// NewSymmetricCylinderSector is the partial-revolution variant; rays
// only hit within the angular range [phi0,phi1].
func NewSymmetricCylinderSector(axis *curve.LineSegment, radius fn.Raytraceable1D, phi0, phi1 float64) (*SymmetricCylinder, error) {
	if axis == nil {
		return nil, fmt.Errorf("symmetric cylinder axis: %w", ErrNilComponent)
	}
	if radius == nil {
		return nil, fmt.Errorf("symmetric cylinder radius: %w", ErrNilComponent)
	}
	cyl, err := NewCylinderSector(axis, LiftV(radius), phi0, phi1)
	if err != nil {
		return nil, err
	}
	return &SymmetricCylinder{Cylinder: cyl, line: axis, profile: radius}, nil
}

// RayIntersect reduces the ray to the axis frame and solves
//
//	r(v(s))^2 = x(s)^2 + y(s)^2
//
// exactly, where x and y are the ray's frame coordinates across the
// axis and v(s) is its position along it. The smallest s >= 0 whose
// hit lies on the tube wins. The tube is open: end disks do not count
// as hits.
func (s *SymmetricCylinder) RayIntersect(r Ray) (float64, bool) {
	tan := s.line.TangentAt(0)
	nrm := s.line.NormalAt(0)
	bin := s.line.BinormalAt(0)
	start := s.line.Start()
	length := s.line.SpeedAt(0)

	rel := vec3.Sub(&r.Origin, &start)
	x0 := vec3.Dot(&rel, &nrm)
	y0 := vec3.Dot(&rel, &bin)
	z0 := vec3.Dot(&rel, &tan)
	dx := vec3.Dot(&r.Dir, &nrm)
	dy := vec3.Dot(&r.Dir, &bin)
	dz := vec3.Dot(&r.Dir, &tan)

	dist2 := fn.Quadratic{
		C0: x0*x0 + y0*y0,
		C1: 2 * (x0*dx + y0*dy),
		C2: dx*dx + dy*dy,
	}
	v0 := z0 / length
	dv := dz / length

	best := math.Inf(1)
	for _, cand := range s.profile.SolveRaytrace(dist2, v0, dv) {
		if cand < 0 || cand >= best {
			continue
		}
		v := v0 + cand*dv
		if v < 0 || v > 1 {
			continue
		}
		if !s.wrap && !s.hitInSector(x0+cand*dx, y0+cand*dy) {
			continue
		}
		best = cand
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// hitInSector checks the hit angle against the angular range, with
// wraparound.
func (s *SymmetricCylinder) hitInSector(x, y float64) bool {
	phi := math.Mod(math.Atan2(y, x)-s.phi0, 2*math.Pi)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi <= s.phi1-s.phi0
}

func (s *SymmetricCylinder) String() string {
	return fmt.Sprintf("symmetric cylinder %v over %v", s.profile, s.line)
}
