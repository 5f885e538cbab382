package surface

import (
	"fmt"
	"math"
	"sync"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/curve"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/mesh"
)

// Capsule is a cylinder shaft closed off by a hemisphere cap at each
// end. The caps share the shaft's frame and radius at the seams, so
// the three parts tessellate into one closed shell: cap equator
// vertices coincide with the shaft's boundary rings and the seam
// normals are recomputed across the joint.
type Capsule struct {
	shaft *Cylinder
	front *Hemisphere
	back  *Hemisphere
}

var _ mesh.Source = (*Capsule)(nil)

// NewCapsule builds a capsule around axis. The radius map shapes the
// shaft; the caps take over its boundary values, front at v=0 and
// back at v=1.
func NewCapsule(axis curve.Curve, radius Map2D) (*Capsule, error) {
	shaft, err := NewCylinder(axis, radius)
	if err != nil {
		return nil, err
	}
	// The front cap's pole points against the curve, and aligning its
	// first equator axis with the curve normal makes cap angles match
	// shaft angles. The back cap points along the curve; its
	// right-handed equator basis runs angles in reverse, so its radius
	// map mirrors u.
	t0 := axis.TangentAt(0)
	front, err := newOrientedHemisphere(
		axis.Start(), t0.Scaled(-1), axis.NormalAt(0),
		capRadius{radius, 0, false})
	if err != nil {
		return nil, err
	}
	back, err := newOrientedHemisphere(
		axis.End(), axis.TangentAt(1), axis.NormalAt(1),
		capRadius{radius, 1, true})
	if err != nil {
		return nil, err
	}
	return &Capsule{shaft: shaft, front: front, back: back}, nil
}

// Shaft returns the cylinder part.
func (c *Capsule) Shaft() Surface { return c.shaft }

// FrontCap returns the hemisphere closing the v=0 end.
func (c *Capsule) FrontCap() Surface { return c.front }

// BackCap returns the hemisphere closing the v=1 end.
func (c *Capsule) BackCap() Surface { return c.back }

// VertexList concatenates shaft and cap buffers and welds the seam
// shading: the normals of each seam ring are recomputed from the
// stitched geometry and shared between the coincident cap and shaft
// vertices.
func (c *Capsule) VertexList(resU, resV int) []mesh.Vertex {
	if emptyAt(resU, resV) {
		return nil
	}
	shaft := c.shaft.VertexList(resU, resV)
	front := c.front.VertexList(resU, resV)
	back := c.back.VertexList(resU, resV)
	verts := make([]mesh.Vertex, 0, len(shaft)+len(front)+len(back))
	verts = append(verts, shaft...)
	verts = append(verts, front...)
	verts = append(verts, back...)

	nShaft := uint32(len(shaft))
	nCap := uint32(len(front))
	ring := make([]uint32, resU)
	across := make([]uint32, resU)

	// Front seam. The ring runs in reverse so that it winds
	// counter-clockwise around the shaft direction, with the paired
	// ring one step into the shaft.
	for k := 0; k < resU; k++ {
		j := uint32((resU - k) % resU)
		ring[k] = nShaft + j
		across[k] = uint32(resU) + j
	}
	mesh.RingNormals(verts, ring, across)
	for i := 0; i < resU; i++ {
		verts[i].Normal = verts[nShaft+uint32(i)].Normal
	}

	// Back seam. Cap angles mirror shaft angles here, which reverses
	// the ring on its own; pairing follows the mirrored indices.
	for k := 0; k < resU; k++ {
		ring[k] = nShaft + nCap + uint32((resU-k)%resU)
		across[k] = uint32((resV-1)*resU + k)
	}
	mesh.RingNormals(verts, ring, across)
	for k := 0; k < resU; k++ {
		top := uint32(resV*resU + k)
		verts[top].Normal = verts[nShaft+nCap+uint32((resU-k)%resU)].Normal
	}
	return verts
}

// IndexList appends the cap triangles after the shaft's, rebased onto
// the concatenated vertex buffer.
func (c *Capsule) IndexList(resU, resV int) []uint32 {
	if emptyAt(resU, resV) {
		return nil
	}
	nShaft := uint32(resU * (resV + 1))
	nCap := uint32(resU*resV + 1)
	idx := c.shaft.IndexList(resU, resV)
	for _, i := range c.front.IndexList(resU, resV) {
		idx = append(idx, nShaft+i)
	}
	for _, i := range c.back.IndexList(resU, resV) {
		idx = append(idx, nShaft+nCap+i)
	}
	return idx
}

func (c *Capsule) String() string {
	return fmt.Sprintf("capsule over %v", c.shaft.axis)
}

// capRadius reads a shaft radius map at a fixed axis position, which
// makes it the radius of the cap closing that end. The far cap's
// equator basis runs angles opposite to the shaft, so it mirrors u.
type capRadius struct {
	base Map2D
	v    float64
	flip bool
}

func (c capRadius) At(uv UV) float64 {
	u := uv[0]
	if c.flip {
		u = 2*math.Pi - u
	}
	return c.base.At(UV{u, c.v})
}

// CapsuleModel is a capsule whose shape can change after creation.
// Mutations and tessellation are safe for concurrent use; the mesh is
// rebuilt lazily and cached until shape or resolution changes. The
// returned mesh is shared between callers and must not be modified.
type CapsuleModel struct {
	mu     sync.Mutex
	axis   curve.Curve
	radius Map2D
	resU   int
	resV   int
	cached *mesh.Mesh
	dirty  bool
}

// NewCapsuleModel builds a mutable capsule around axis.
func NewCapsuleModel(axis curve.Curve, radius Map2D) (*CapsuleModel, error) {
	if axis == nil {
		return nil, fmt.Errorf("capsule axis: %w", ErrNilComponent)
	}
	if radius == nil {
		return nil, fmt.Errorf("capsule radius: %w", ErrNilComponent)
	}
	return &CapsuleModel{axis: axis, radius: radius, dirty: true}, nil
}

// SetAxis replaces the center curve and invalidates the cached mesh.
func (m *CapsuleModel) SetAxis(axis curve.Curve) error {
	if axis == nil {
		return fmt.Errorf("capsule axis: %w", ErrNilComponent)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.axis = axis
	m.dirty = true
	return nil
}

// SetRadius replaces the radius map and invalidates the cached mesh.
func (m *CapsuleModel) SetRadius(radius Map2D) error {
	if radius == nil {
		return fmt.Errorf("capsule radius: %w", ErrNilComponent)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.radius = radius
	m.dirty = true
	return nil
}

// Geometry returns the tessellated capsule, rebuilding only when the
// shape or the requested resolution changed since the last call.
func (m *CapsuleModel) Geometry(resU, resV int) (*mesh.Mesh, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty && m.cached != nil && resU == m.resU && resV == m.resV {
		return m.cached, nil
	}
	c, err := NewCapsule(m.axis, m.radius)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("rebuilding capsule geometry at %dx%d", resU, resV)
	m.cached = mesh.Generate(c, resU, resV)
	m.resU, m.resV = resU, resV
	m.dirty = false
	return m.cached, nil
}
