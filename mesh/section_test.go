package mesh

import (
	"testing"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec3"
)

// cubeMesh hand-tessellates the unit cube translated by off, wound
// counter-clockwise seen from outside.
func cubeMesh(off vec3.T) *Mesh {
	corners := []vec3.T{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	m := &Mesh{}
	for _, c := range corners {
		p := vec3.Add(&c, &off)
		m.Vertices = append(m.Vertices, NewVertex(p, vec3.Zero))
	}
	m.Indices = []uint32{
		0, 3, 2, 0, 2, 1, // bottom
		4, 5, 6, 4, 6, 7, // top
		0, 1, 5, 0, 5, 4, // front
		2, 3, 7, 2, 7, 6, // back
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return m
}

// --- Tests -----------------------------------------------------------

func TestSectionOfCubeIsUnitSquare(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cube := cubeMesh(vec3.Zero)
	sec := Section(cube, vec3.T{0, 0, 0.5}, vec3.T{0, 0, 1})
	assert.Equal(t, 1, len(sec), "horizontal cut should give one contour")
	assert.InDelta(t, 1.0, SectionArea(sec), 1e-5)
	sec = Section(cube, vec3.T{0.5, 0, 0}, vec3.T{1, 0, 0})
	assert.Equal(t, 1, len(sec), "vertical cut should give one contour")
	assert.InDelta(t, 1.0, SectionArea(sec), 1e-5)
}

func TestSectionMissesOutsidePlanes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cube := cubeMesh(vec3.Zero)
	sec := Section(cube, vec3.T{0, 0, 2}, vec3.T{0, 0, 1})
	assert.Empty(t, sec, "plane above the cube should cut nothing")
	assert.Empty(t, Section(nil, vec3.Zero, vec3.T{0, 0, 1}))
	assert.Equal(t, 0.0, SectionArea(nil))
}

func TestSectionUnionMergesOverlap(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	origin := vec3.T{0, 0, 0.5}
	up := vec3.T{0, 0, 1}
	a := Section(cubeMesh(vec3.Zero), origin, up)
	b := Section(cubeMesh(vec3.T{0.5, 0, 0}), origin, up)
	assert.InDelta(t, 1.0, SectionArea(a), 1e-5)
	assert.InDelta(t, 1.0, SectionArea(b), 1e-5)
	u := SectionUnion(a, b)
	assert.InDelta(t, 1.5, SectionArea(u), 1e-5, "squares overlap in half a unit")
	assert.InDelta(t, SectionArea(a), SectionArea(SectionUnion(a, nil)), 1e-12)
	assert.Empty(t, SectionUnion())
}

func TestSectionAreaSubtractsHoles(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	outer := polyclip.Contour{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	hole := polyclip.Contour{{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 1}}
	ring := polyclip.Polygon{outer, hole}
	assert.InDelta(t, 12.0, SectionArea(ring), 1e-12, "4x4 square minus 2x2 hole")
}

func TestSectionContoursClose(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cube := cubeMesh(vec3.Zero)
	sec := Section(cube, vec3.T{0, 0, 0.25}, vec3.T{0, 0, 1})
	if !assert.Equal(t, 1, len(sec)) {
		return
	}
	contour := sec[0]
	assert.GreaterOrEqual(t, len(contour), 4, "cut square should have at least its 4 sides")
	for i, p := range contour {
		onEdge := near(p.X, 0) || near(p.X, -1) || near(p.Y, 0) || near(p.Y, -1)
		assert.True(t, onEdge, "contour point %d (%v) should lie on the square's boundary", i, p)
	}
}

func near(x, target float64) bool {
	d := x - target
	return d < 1e-5 && d > -1e-5
}
