package mesh

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/ungerik/go3d/float64/vec3"
)

// WeldEps is the welding tolerance for chaining section segments into
// closed contours. Two cut points closer than this are the same point.
var WeldEps = 1e-5

// Section cuts a mesh with the plane through origin with the given
// normal and returns the cut as a set of closed contours in plane
// coordinates. The plane basis is derived from the normal, so
// contours from parallel planes share a coordinate system. Triangles
// coplanar with the plane contribute nothing.
func Section(m *Mesh, origin, normal vec3.T) polyclip.Polygon {
	if m == nil || len(m.Indices) < 3 {
		return nil
	}
	nrm := normal.Normalized()
	e1, e2 := planeBasis(nrm)

	var segs []planeSeg
	var p [3]vec3.T
	var d [3]float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		for k := 0; k < 3; k++ {
			p[k] = position64(m.Vertices[m.Indices[i+k]])
			rel := vec3.Sub(&p[k], &origin)
			d[k] = vec3.Dot(&rel, &nrm)
			if d[k] == 0 { // nudge vertices on the plane to one side
				d[k] = 1e-30
			}
		}
		var cut [2]polyclip.Point
		cuts := 0
		for a := 0; a < 3 && cuts < 2; a++ {
			b := (a + 1) % 3
			if d[a]*d[b] >= 0 {
				continue
			}
			f := d[a] / (d[a] - d[b])
			q := vec3.Interpolate(&p[a], &p[b], f)
			rel := vec3.Sub(&q, &origin)
			cut[cuts] = polyclip.Point{X: vec3.Dot(&rel, &e1), Y: vec3.Dot(&rel, &e2)}
			cuts++
		}
		if cuts == 2 {
			segs = append(segs, planeSeg{cut[0], cut[1]})
		}
	}
	poly := chainSegments(segs)
	tracer().Debugf("section: %d segments chained into %d contours", len(segs), len(poly))
	return poly
}

// SectionUnion merges overlapping cross-sections into one polygon.
// Sections of different meshes combine as long as they were cut in
// the same plane.
func SectionUnion(ps ...polyclip.Polygon) polyclip.Polygon {
	var acc polyclip.Polygon
	for _, p := range ps {
		if len(p) == 0 {
			continue
		}
		if acc == nil {
			acc = p
			continue
		}
		acc = acc.Construct(polyclip.UNION, p)
	}
	return acc
}

// SectionArea is the enclosed area of a section polygon. Holes wind
// opposite to their enclosing contour and subtract.
func SectionArea(p polyclip.Polygon) float64 {
	var total float64
	for _, c := range p {
		total += shoelace(c)
	}
	return math.Abs(total)
}

func shoelace(c polyclip.Contour) float64 {
	var sum float64
	n := len(c)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}

type planeSeg struct {
	a, b polyclip.Point
}

type weldKey [2]int64

func weldOf(p polyclip.Point) weldKey {
	return weldKey{
		int64(math.Round(p.X / WeldEps)),
		int64(math.Round(p.Y / WeldEps)),
	}
}

// chainSegments links loose cut segments endpoint to endpoint into
// closed contours. Open chains and chains of fewer than three points
// are dropped.
func chainSegments(segs []planeSeg) polyclip.Polygon {
	buckets := make(map[weldKey][]int, 2*len(segs))
	for i, s := range segs {
		buckets[weldOf(s.a)] = append(buckets[weldOf(s.a)], i)
		buckets[weldOf(s.b)] = append(buckets[weldOf(s.b)], i)
	}
	used := make([]bool, len(segs))
	var poly polyclip.Polygon
	for i := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		start := weldOf(segs[i].a)
		contour := polyclip.Contour{segs[i].a, segs[i].b}
		cur := weldOf(segs[i].b)
		closed := false
		for !closed {
			next := -1
			for _, j := range buckets[cur] {
				if !used[j] {
					next = j
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			pt := segs[next].b
			if weldOf(segs[next].b) == cur {
				pt = segs[next].a
			}
			if weldOf(pt) == start {
				closed = true
				break
			}
			contour = append(contour, pt)
			cur = weldOf(pt)
		}
		if closed && len(contour) >= 3 {
			poly = append(poly, contour)
		}
	}
	return poly
}

// planeBasis spans the plane perpendicular to unit normal n with two
// orthonormal axes.
func planeBasis(n vec3.T) (vec3.T, vec3.T) {
	ax := math.Abs(n[0])
	ay := math.Abs(n[1])
	az := math.Abs(n[2])
	axis := vec3.T{1, 0, 0}
	if ay <= ax && ay <= az {
		axis = vec3.T{0, 1, 0}
	} else if az <= ax && az <= ay {
		axis = vec3.T{0, 0, 1}
	}
	e1 := vec3.Cross(&n, &axis)
	e1.Normalize()
	e2 := vec3.Cross(&n, &e1)
	return e1, e2
}

func position64(v Vertex) vec3.T {
	return vec3.T{float64(v.Position[0]), float64(v.Position[1]), float64(v.Position[2])}
}
