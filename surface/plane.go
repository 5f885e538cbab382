package surface

import (
	"fmt"
	"math"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/fn"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/mesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// CorrugatedPlane is a rectangular plate displaced along its normal
// by a height profile of the first parameter, so the surface carries
// ridges running across it. Both parameters are in world length
// units: u in [0,uLen] along the first edge, v in [0,vLen] along the
// second. The height profile must cover [0,uLen].
type CorrugatedPlane struct {
	origin vec3.T
	e1     vec3.T
	e2     vec3.T
	nrm    vec3.T
	height fn.Raytraceable1D
	uLen   float64
	vLen   float64
}

var _ Raytraceable = (*CorrugatedPlane)(nil)
var _ mesh.Source = (*CorrugatedPlane)(nil)

// NewCorrugatedPlane builds a plate at origin spanned by uSide and
// vSide, displaced by height. The patch is the rectangle over uSide
// and the component of vSide perpendicular to it; the plate normal
// follows the right-hand rule from uSide to vSide.
func NewCorrugatedPlane(origin, uSide, vSide vec3.T, height fn.Raytraceable1D) (*CorrugatedPlane, error) {
	if height == nil {
		return nil, fmt.Errorf("plane height profile: %w", ErrNilComponent)
	}
	uLen := uSide.Length()
	if uLen == 0 {
		return nil, fmt.Errorf("plane u side: %w", ErrDegenerateSurface)
	}
	e1 := uSide.Scaled(1 / uLen)
	shear := e1.Scaled(vec3.Dot(&vSide, &e1))
	perp := vec3.Sub(&vSide, &shear)
	vLen := perp.Length()
	if vLen == 0 {
		return nil, fmt.Errorf("plane v side: %w", ErrDegenerateSurface)
	}
	e2 := perp.Scaled(1 / vLen)
	return &CorrugatedPlane{
		origin: origin,
		e1:     e1,
		e2:     e2,
		nrm:    vec3.Cross(&e1, &e2),
		height: height,
		uLen:   uLen,
		vLen:   vLen,
	}, nil
}

// At returns the world position of the displaced plate point.
func (p *CorrugatedPlane) At(uv UV) vec3.T {
	a := p.e1.Scaled(uv[0])
	b := p.e2.Scaled(uv[1])
	c := p.nrm.Scaled(p.height.At(uv[0]))
	q := vec3.Add(&p.origin, &a)
	q = vec3.Add(&q, &b)
	return vec3.Add(&q, &c)
}

// NormalAt returns the unit normal on the displaced side. The profile
// derivative gives it exactly: the normal tilts against the slope.
func (p *CorrugatedPlane) NormalAt(uv UV) vec3.T {
	slope := p.height.DerivAt(uv[0])
	tilt := p.e1.Scaled(-slope)
	n := vec3.Add(&p.nrm, &tilt)
	n.Normalize()
	return n
}

// RayIntersect solves h(u(s))^2 = w(s)^2 exactly, where u and w are
// the ray's plate coordinates along the first edge and the normal.
// Squaring admits mirror hits at w = -h; those and hits outside the
// patch rectangle are filtered, and the smallest s >= 0 wins.
func (p *CorrugatedPlane) RayIntersect(r Ray) (float64, bool) {
	rel := vec3.Sub(&r.Origin, &p.origin)
	u0 := vec3.Dot(&rel, &p.e1)
	v0 := vec3.Dot(&rel, &p.e2)
	w0 := vec3.Dot(&rel, &p.nrm)
	du := vec3.Dot(&r.Dir, &p.e1)
	dv := vec3.Dot(&r.Dir, &p.e2)
	dw := vec3.Dot(&r.Dir, &p.nrm)

	dist2 := fn.Quadratic{C0: w0 * w0, C1: 2 * w0 * dw, C2: dw * dw}
	best := math.Inf(1)
	for _, cand := range p.height.SolveRaytrace(dist2, u0, du) {
		if cand < 0 || cand >= best {
			continue
		}
		u := u0 + cand*du
		v := v0 + cand*dv
		if u < 0 || u > p.uLen || v < 0 || v > p.vLen {
			continue
		}
		h := p.height.At(u)
		w := w0 + cand*dw
		if math.Abs(h-w) > 1e-6*(1+math.Abs(h)+math.Abs(w)) {
			continue // mirror root of the squared equation
		}
		best = cand
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// VertexList tessellates the patch as a displaced grid of resU x resV
// vertices.
func (p *CorrugatedPlane) VertexList(resU, resV int) []mesh.Vertex {
	if emptyAt(resU, resV) {
		return nil
	}
	verts := make([]mesh.Vertex, 0, resU*resV)
	for j := 0; j < resV; j++ {
		v := gridStep(j, resV, p.vLen)
		for i := 0; i < resU; i++ {
			uv := UV{gridStep(i, resU, p.uLen), v}
			verts = append(verts, mesh.NewVertex(p.At(uv), p.NormalAt(uv)))
		}
	}
	return verts
}

// IndexList winds two triangles per grid cell, counter-clockwise seen
// from the displaced side.
func (p *CorrugatedPlane) IndexList(resU, resV int) []uint32 {
	if emptyAt(resU, resV) {
		return nil
	}
	idx := make([]uint32, 0, (resU-1)*(resV-1)*6)
	for j := 0; j < resV-1; j++ {
		for i := 0; i < resU-1; i++ {
			a := uint32(j*resU + i)
			b := uint32(j*resU + i + 1)
			c := uint32((j+1)*resU + i)
			d := uint32((j+1)*resU + i + 1)
			idx = append(idx, a, b, d, a, d, c)
		}
	}
	return idx
}

func (p *CorrugatedPlane) String() string {
	return fmt.Sprintf("corrugated plane %gx%g at %v", p.uLen, p.vLen, p.origin)
}

// gridStep spreads n samples over [0,span] including both ends.
func gridStep(i, n int, span float64) float64 {
	if n == 1 {
		return 0
	}
	return span * float64(i) / float64(n-1)
}
