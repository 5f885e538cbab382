package surface

import (
	"fmt"
	"math"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/curve"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/mesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// Cylinder is a tube around a center curve. The radius may vary over
// both the angle u and the axis position v, so the tube can bulge,
// taper or dent. A full cylinder wraps around in u; a sector spans
// only part of the revolution.
//
// Positions follow the curve's propagated frame:
//
//	At(u,v) = C(v) + r(u,v) * (N(v) cos u + B(v) sin u)
type Cylinder struct {
	axis   curve.Curve
	radius Map2D
	phi0   float64
	phi1   float64
	wrap   bool
}

var _ Surface = (*Cylinder)(nil)
var _ mesh.Source = (*Cylinder)(nil)

// NewCylinder builds a full tube of revolution around axis.
func NewCylinder(axis curve.Curve, radius Map2D) (*Cylinder, error) {
	if axis == nil {
		return nil, fmt.Errorf("cylinder axis: %w", ErrNilComponent)
	}
	if radius == nil {
		return nil, fmt.Errorf("cylinder radius: %w", ErrNilComponent)
	}
	return &Cylinder{
		axis:   axis,
		radius: radius,
		phi0:   0,
		phi1:   2 * math.Pi,
		wrap:   true,
	}, nil
}

// NewCylinderSector builds a partial tube spanning angles [phi0,phi1]
// around axis. The sector does not wrap; its tessellation has open
// edges at both angles.
func NewCylinderSector(axis curve.Curve, radius Map2D, phi0, phi1 float64) (*Cylinder, error) {
	if axis == nil {
		return nil, fmt.Errorf("cylinder axis: %w", ErrNilComponent)
	}
	if radius == nil {
		return nil, fmt.Errorf("cylinder radius: %w", ErrNilComponent)
	}
	if !(phi1 > phi0) {
		return nil, fmt.Errorf("cylinder sector [%g,%g]: %w", phi0, phi1, ErrDegenerateSurface)
	}
	return &Cylinder{
		axis:   axis,
		radius: radius,
		phi0:   phi0,
		phi1:   phi1,
		wrap:   false,
	}, nil
}

// At returns the world position for angle u and axis position v.
func (c *Cylinder) At(uv UV) vec3.T {
	center := c.axis.PositionAt(uv[1])
	n := c.axis.NormalAt(uv[1])
	b := c.axis.BinormalAt(uv[1])
	r := c.radius.At(uv)
	rn := n.Scaled(r * math.Cos(uv[0]))
	rb := b.Scaled(r * math.Sin(uv[0]))
	radial := vec3.Add(&rn, &rb)
	return vec3.Add(&center, &radial)
}

// NormalAt returns the outward unit normal. It is computed from
// central differences, so it stays correct for radius maps that vary
// in either parameter.
func (c *Cylinder) NormalAt(uv UV) vec3.T {
	nrm := numericNormal(c, uv, c.phi0, c.phi1, 0, 1)
	p := c.At(uv)
	center := c.axis.PositionAt(uv[1])
	outward := vec3.Sub(&p, &center)
	return orientAlong(nrm, outward)
}

// VertexList tessellates into resV+1 rings of resU vertices each.
func (c *Cylinder) VertexList(resU, resV int) []mesh.Vertex {
	if emptyAt(resU, resV) {
		return nil
	}
	verts := make([]mesh.Vertex, 0, resU*(resV+1))
	for j := 0; j <= resV; j++ {
		v := float64(j) / float64(resV)
		for i := 0; i < resU; i++ {
			uv := UV{c.angleAt(i, resU), v}
			verts = append(verts, mesh.NewVertex(c.At(uv), c.NormalAt(uv)))
		}
	}
	return verts
}

// IndexList winds two triangles per quad, counter-clockwise seen from
// outside. A full cylinder closes the last column back to the first.
func (c *Cylinder) IndexList(resU, resV int) []uint32 {
	if emptyAt(resU, resV) {
		return nil
	}
	cols := resU
	if !c.wrap {
		cols = resU - 1
	}
	idx := make([]uint32, 0, cols*resV*6)
	for j := 0; j < resV; j++ {
		for i := 0; i < cols; i++ {
			a := uint32(j*resU + i)
			b := uint32(j*resU + (i+1)%resU)
			cc := uint32((j+1)*resU + i)
			d := uint32((j+1)*resU + (i+1)%resU)
			idx = append(idx, a, d, b, a, cc, d)
		}
	}
	return idx
}

// angleAt spreads resU samples over the angular span: a wrapping
// cylinder leaves the closing step implicit, a sector includes both
// boundary angles.
func (c *Cylinder) angleAt(i, resU int) float64 {
	if c.wrap {
		return c.phi0 + float64(i)*(c.phi1-c.phi0)/float64(resU)
	}
	if resU == 1 {
		return c.phi0
	}
	return c.phi0 + float64(i)*(c.phi1-c.phi0)/float64(resU-1)
}

func (c *Cylinder) String() string {
	if c.wrap {
		return fmt.Sprintf("cylinder over %v", c.axis)
	}
	return fmt.Sprintf("cylinder sector [%g,%g] over %v", c.phi0, c.phi1, c.axis)
}
