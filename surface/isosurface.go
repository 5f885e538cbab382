package surface

import (
	"fmt"
	"math"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/mesh"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ungerik/go3d/float64/vec3"
)

// Scan tuning for isosurface extraction. Both are relative to the
// isosurface's nominal radius: scans start ScanDepth radii out from
// the center and march in steps of ScanStep radii. Features thinner
// than one step can be skipped over.
var (
	ScanDepth = 3.0
	ScanStep  = 0.01
)

// GradientStep is the probe distance for isosurface normals, relative
// to the nominal radius.
var GradientStep = 1e-6

// Field is a scalar field over world space.
type Field func(p vec3.T) float64

// Isosurface is the level set of a scalar field, parameterized in
// spherical coordinates around a center: u is the longitude, v the
// latitude in [-pi/2,pi/2]. Points are found by marching a ray from
// outside toward the center and bisecting the first level crossing,
// so the field must be above the level outside the surface and the
// surface must be star-shaped around the center to be fully
// representable.
type Isosurface struct {
	field  Field
	level  float64
	center vec3.T
	radius float64
}

var _ Raytraceable = (*Isosurface)(nil)
var _ mesh.Source = (*Isosurface)(nil)

// NewIsosurface builds the level-set surface of field around center.
// radius is the nominal extent: scans for surface points reach out to
// ScanDepth times this.
func NewIsosurface(field Field, level float64, center vec3.T, radius float64) (*Isosurface, error) {
	if field == nil {
		return nil, fmt.Errorf("isosurface field: %w", ErrNilComponent)
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("isosurface radius %g: %w", radius, ErrDegenerateSurface)
	}
	return &Isosurface{field: field, level: level, center: center, radius: radius}, nil
}

// FromSDF wraps a signed distance field as the isosurface of its zero
// level. Center and nominal radius come from the field's bounding
// box.
func FromSDF(s sdf.SDF3) (*Isosurface, error) {
	if s == nil {
		return nil, fmt.Errorf("isosurface field: %w", ErrNilComponent)
	}
	bb := s.BoundingBox()
	center := vec3.T{
		(bb.Min.X + bb.Max.X) / 2,
		(bb.Min.Y + bb.Max.Y) / 2,
		(bb.Min.Z + bb.Max.Z) / 2,
	}
	dx := bb.Max.X - bb.Min.X
	dy := bb.Max.Y - bb.Min.Y
	dz := bb.Max.Z - bb.Min.Z
	radius := 0.5 * math.Sqrt(dx*dx+dy*dy+dz*dz)
	field := func(p vec3.T) float64 {
		return s.Evaluate(v3.Vec{X: p[0], Y: p[1], Z: p[2]})
	}
	return NewIsosurface(field, 0, center, radius)
}

// direction maps spherical parameters to a unit direction.
func direction(uv UV) vec3.T {
	ring := math.Cos(uv[1])
	return vec3.T{
		ring * math.Cos(uv[0]),
		ring * math.Sin(uv[0]),
		math.Sin(uv[1]),
	}
}

// At returns the outermost level crossing along the direction of uv,
// or a NaN position when the scan finds none.
func (s *Isosurface) At(uv UV) vec3.T {
	dir := direction(uv)
	outer := ScanDepth * s.radius
	step := ScanStep * s.radius
	at := func(t float64) float64 {
		q := dir.Scaled(t)
		q = vec3.Add(&s.center, &q)
		return s.field(q) - s.level
	}
	if at(outer) <= 0 {
		// already inside at scan start, the surface is out of reach
		return vec3.T{math.NaN(), math.NaN(), math.NaN()}
	}
	for prevT := outer; prevT > 0; {
		t := prevT - step
		if t < 0 {
			t = 0
		}
		if at(t) <= 0 {
			hit := bisect(at, t, prevT)
			q := dir.Scaled(hit)
			return vec3.Add(&s.center, &q)
		}
		prevT = t
	}
	return vec3.T{math.NaN(), math.NaN(), math.NaN()}
}

// NormalAt returns the normalized field gradient at the surface
// point, which points outward for fields that grow with distance. For
// directions where the scan misses, the result is NaN.
func (s *Isosurface) NormalAt(uv UV) vec3.T {
	p := s.At(uv)
	if math.IsNaN(p[0]) {
		return p
	}
	h := GradientStep * s.radius
	var grad vec3.T
	for k := 0; k < 3; k++ {
		hi, lo := p, p
		hi[k] += h
		lo[k] -= h
		grad[k] = (s.field(hi) - s.field(lo)) / (2 * h)
	}
	grad.Normalize()
	return grad
}

// RayIntersect marches along the ray looking for a sign change of the
// field against the level and bisects the first one. Like the surface
// scan this is a heuristic: crossings thinner than one step can be
// missed.
func (s *Isosurface) RayIntersect(r Ray) (float64, bool) {
	dirLen := r.Dir.Length()
	if dirLen == 0 {
		return 0, false
	}
	at := func(t float64) float64 {
		q := r.At(t)
		return s.field(q) - s.level
	}
	toCenter := vec3.Sub(&s.center, &r.Origin)
	reach := (toCenter.Length() + ScanDepth*s.radius) / dirLen
	step := ScanStep * s.radius / dirLen
	prev := at(0)
	for t := step; t <= reach; t += step {
		g := at(t)
		if (g <= 0) != (prev <= 0) {
			lo, hi := t-step, t
			if g <= 0 {
				return bisect(at, hi, lo), true // entering the body
			}
			return bisect(at, lo, hi), true // leaving it
		}
		prev = g
	}
	return 0, false
}

// bisect narrows a bracket with g(neg) <= 0 < g(pos) down to the
// crossing.
func bisect(g func(float64) float64, neg, pos float64) float64 {
	for i := 0; i < 64 && math.Abs(pos-neg) > 1e-14*(1+math.Abs(pos)); i++ {
		mid := (neg + pos) / 2
		if g(mid) <= 0 {
			neg = mid
		} else {
			pos = mid
		}
	}
	return (neg + pos) / 2
}

// VertexList tessellates the full spherical parameterization as a
// longitude/latitude grid. Directions where the scan misses produce
// NaN vertices; the mesh is complete only if the surface is closed
// and within scan reach.
func (s *Isosurface) VertexList(resU, resV int) []mesh.Vertex {
	if emptyAt(resU, resV) {
		return nil
	}
	verts := make([]mesh.Vertex, 0, resU*(resV+1))
	for j := 0; j <= resV; j++ {
		v := -math.Pi/2 + float64(j)*math.Pi/float64(resV)
		for i := 0; i < resU; i++ {
			uv := UV{float64(i) * 2 * math.Pi / float64(resU), v}
			verts = append(verts, mesh.NewVertex(s.At(uv), s.NormalAt(uv)))
		}
	}
	return verts
}

// IndexList winds the longitude/latitude grid like a closed tube;
// the pole rings collapse to points, so half their triangles are
// degenerate.
func (s *Isosurface) IndexList(resU, resV int) []uint32 {
	if emptyAt(resU, resV) {
		return nil
	}
	idx := make([]uint32, 0, resU*resV*6)
	for j := 0; j < resV; j++ {
		for i := 0; i < resU; i++ {
			a := uint32(j*resU + i)
			b := uint32(j*resU + (i+1)%resU)
			c := uint32((j+1)*resU + i)
			d := uint32((j+1)*resU + (i+1)%resU)
			idx = append(idx, a, b, d, a, d, c)
		}
	}
	return idx
}

func (s *Isosurface) String() string {
	return fmt.Sprintf("isosurface level %g around %v", s.level, s.center)
}
