package surface

import (
	"fmt"
	"math"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/mesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// Hemisphere is half a sphere of varying radius: u is the angle
// around the pole axis, v the latitude from the equator (v=0) up to
// the pole (v=pi/2). The radius map should converge to a single value
// at the pole; tessellation samples the pole at u=0.
type Hemisphere struct {
	center vec3.T
	pole   vec3.T
	e1, e2 vec3.T
	radius Map2D
}

var _ Surface = (*Hemisphere)(nil)
var _ mesh.Source = (*Hemisphere)(nil)

// NewHemisphere builds a hemisphere bulging from center towards pole.
// The equator basis is chosen deterministically from the pole
// direction.
func NewHemisphere(center, pole vec3.T, radius Map2D) (*Hemisphere, error) {
	if pole.Length() == 0 {
		return nil, fmt.Errorf("hemisphere pole: %w", ErrDegenerateSurface)
	}
	p := pole.Normalized()
	return newOrientedHemisphere(center, p, perpUnit(p), radius)
}

// newOrientedHemisphere pins the equator basis so that angle u=0 lies
// along e1. e1 must be a unit vector perpendicular to the unit pole;
// the second axis completes a right-handed frame, which keeps the
// tessellation wound counter-clockwise seen from outside.
func newOrientedHemisphere(center, pole, e1 vec3.T, radius Map2D) (*Hemisphere, error) {
	if radius == nil {
		return nil, fmt.Errorf("hemisphere radius: %w", ErrNilComponent)
	}
	return &Hemisphere{
		center: center,
		pole:   pole,
		e1:     e1,
		e2:     vec3.Cross(&pole, &e1),
		radius: radius,
	}, nil
}

// At returns the world position for angle u and latitude v.
func (h *Hemisphere) At(uv UV) vec3.T {
	r := h.radius.At(uv)
	ring := math.Cos(uv[1])
	a := h.e1.Scaled(r * ring * math.Cos(uv[0]))
	b := h.e2.Scaled(r * ring * math.Sin(uv[0]))
	c := h.pole.Scaled(r * math.Sin(uv[1]))
	p := vec3.Add(&a, &b)
	p = vec3.Add(&p, &c)
	return vec3.Add(&h.center, &p)
}

// NormalAt returns the outward unit normal. At the pole the angular
// tangent collapses, so the pole direction is used there.
func (h *Hemisphere) NormalAt(uv UV) vec3.T {
	if uv[1] >= math.Pi/2-NormalStep {
		return h.pole
	}
	nrm := numericNormal(h, uv, 0, 2*math.Pi, 0, math.Pi/2)
	p := h.At(uv)
	outward := vec3.Sub(&p, &h.center)
	return orientAlong(nrm, outward)
}

// VertexList tessellates into resV latitude rings of resU vertices
// plus a single pole vertex at the end of the buffer.
func (h *Hemisphere) VertexList(resU, resV int) []mesh.Vertex {
	if emptyAt(resU, resV) {
		return nil
	}
	verts := make([]mesh.Vertex, 0, resU*resV+1)
	for j := 0; j < resV; j++ {
		v := float64(j) * (math.Pi / 2) / float64(resV)
		for i := 0; i < resU; i++ {
			uv := UV{float64(i) * 2 * math.Pi / float64(resU), v}
			verts = append(verts, mesh.NewVertex(h.At(uv), h.NormalAt(uv)))
		}
	}
	pole := UV{0, math.Pi / 2}
	verts = append(verts, mesh.NewVertex(h.At(pole), h.pole))
	return verts
}

// IndexList winds quads between latitude rings and closes the top
// with a fan into the pole vertex.
func (h *Hemisphere) IndexList(resU, resV int) []uint32 {
	if emptyAt(resU, resV) {
		return nil
	}
	idx := make([]uint32, 0, 6*resU*(resV-1)+3*resU)
	for j := 0; j < resV-1; j++ {
		for i := 0; i < resU; i++ {
			a := uint32(j*resU + i)
			b := uint32(j*resU + (i+1)%resU)
			c := uint32((j+1)*resU + i)
			d := uint32((j+1)*resU + (i+1)%resU)
			idx = append(idx, a, b, d, a, d, c)
		}
	}
	pole := uint32(resU * resV)
	top := (resV - 1) * resU
	for i := 0; i < resU; i++ {
		a := uint32(top + i)
		b := uint32(top + (i+1)%resU)
		idx = append(idx, a, b, pole)
	}
	return idx
}

func (h *Hemisphere) String() string {
	return fmt.Sprintf("hemisphere at %v towards %v", h.center, h.pole)
}

// perpUnit picks a unit vector perpendicular to d, crossing d with
// its smallest axis for stability.
func perpUnit(d vec3.T) vec3.T {
	ax := math.Abs(d[0])
	ay := math.Abs(d[1])
	az := math.Abs(d[2])
	axis := vec3.T{1, 0, 0}
	if ay <= ax && ay <= az {
		axis = vec3.T{0, 1, 0}
	} else if az <= ax && az <= ay {
		axis = vec3.T{0, 0, 1}
	}
	e := vec3.Cross(&d, &axis)
	e.Normalize()
	return e
}
