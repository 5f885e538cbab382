/*
Package mesh holds the tessellation output types shared by all
surfaces: GPU-shaped vertex/index buffers, seam normal recomputation
for stitched parts, and planar cross-sections of triangle meshes.

# BSD License

# Copyright (c) Freedom of Form Foundation

All rights reserved.

Please refer to the license file for more information.
*/
package mesh

import (
	"github.com/chewxy/math32"
	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'anatomy.geometry'
func tracer() tracing.Trace {
	return tracing.Select("anatomy.geometry")
}

// Vertex is one mesh vertex in GPU upload shape: position and normal
// as float32 triples, tightly packed.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// NewVertex narrows double-precision geometry into a vertex.
func NewVertex(p, n vec3.T) Vertex {
	return Vertex{
		Position: [3]float32{float32(p[0]), float32(p[1]), float32(p[2])},
		Normal:   [3]float32{float32(n[0]), float32(n[1]), float32(n[2])},
	}
}

// Mesh is an indexed triangle list. Every three consecutive indices
// form one triangle, wound counter-clockwise seen from the normal
// side.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Triangles returns the triangle count.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Source produces vertex and index buffers at a given resolution.
// Zero or negative resolutions yield empty buffers, never an error.
type Source interface {
	VertexList(resU, resV int) []Vertex
	IndexList(resU, resV int) []uint32
}

// Generate tessellates a source into a mesh.
func Generate(s Source, resU, resV int) *Mesh {
	m := &Mesh{
		Vertices: s.VertexList(resU, resV),
		Indices:  s.IndexList(resU, resV),
	}
	tracer().Debugf("generated mesh: %d vertices, %d triangles",
		len(m.Vertices), m.Triangles())
	return m
}

// RingNormals recomputes the normals of a seam ring from vertex
// positions alone. ring lists the seam vertices in ring order;
// across[i] is the paired vertex on the neighboring ring of the other
// part. The normal at ring[i] becomes the normalized cross product of
// the delta to the next ring vertex and the delta to the paired
// vertex, so stitched parts shade continuously across the seam. With
// the ring wound counter-clockwise around the outward axis and the
// paired ring on the far side, the cross points outward.
func RingNormals(verts []Vertex, ring, across []uint32) {
	n := len(ring)
	if n < 2 || len(across) != n {
		tracer().Errorf("seam ring of %d vertices with %d pairings, skipping", n, len(across))
		return
	}
	for i := 0; i < n; i++ {
		v := &verts[ring[i]]
		next := verts[ring[(i+1)%n]]
		pair := verts[across[i]]
		du := sub32(next.Position, v.Position)
		dv := sub32(pair.Position, v.Position)
		nrm := cross32(du, dv)
		normalize32(&nrm)
		v.Normal = nrm
	}
}

func sub32(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross32(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize32(v *[3]float32) {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return
	}
	v[0] /= l
	v[1] /= l
	v[2] /= l
}
