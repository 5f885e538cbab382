package surface

import (
	"errors"
	"math"
	"testing"

	anatomy "github.com/Freedom-of-Form-Foundation/anatomy3d-sub000"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/curve"
	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/fn"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec3"
)

// zAxis is a straight center line from the origin up the z axis.
func zAxis(length float64) *curve.LineSegment {
	return curve.MustLineSegment(vec3.Zero, vec3.T{0, 0, length})
}

func assertIndicesInRange(t *testing.T, idx []uint32, nVerts int) {
	t.Helper()
	for k, i := range idx {
		if int(i) >= nVerts {
			t.Fatalf("index %d references vertex %d of %d", k, i, nVerts)
		}
	}
}

// --- Tests -----------------------------------------------------------

func TestCylinderTessellationCounts(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cyl, err := NewCylinder(zAxis(4), ConstMap2D(1))
	assert.NoError(t, err)
	verts := cyl.VertexList(32, 32)
	idx := cyl.IndexList(32, 32)
	assert.Equal(t, 1056, len(verts), "32x32 tube should have 32*33 vertices")
	assert.Equal(t, 6144, len(idx), "32x32 tube should have 32*32*6 indices")
	assertIndicesInRange(t, idx, len(verts))

	sector, err := NewCylinderSector(zAxis(4), ConstMap2D(1), 0, math.Pi)
	assert.NoError(t, err)
	verts = sector.VertexList(32, 32)
	idx = sector.IndexList(32, 32)
	assert.Equal(t, 1056, len(verts))
	assert.Equal(t, 31*32*6, len(idx), "a sector does not wrap around")
	assertIndicesInRange(t, idx, len(verts))
}

func TestCylinderEmptyAtDegenerateResolution(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cyl, err := NewCylinder(zAxis(4), ConstMap2D(1))
	assert.NoError(t, err)
	assert.Empty(t, cyl.VertexList(0, 8))
	assert.Empty(t, cyl.VertexList(8, -1))
	assert.Empty(t, cyl.IndexList(0, 8))
	assert.Empty(t, cyl.IndexList(8, 0))
}

func TestCylinderPointsSitAtRadius(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cyl, err := NewCylinder(zAxis(4), ConstMap2D(2))
	assert.NoError(t, err)
	for _, phi := range []float64{0, 1, math.Pi, 5} {
		for _, v := range []float64{0, 0.25, 0.5, 1} {
			p := cyl.At(UV{phi, v})
			assert.InDelta(t, 2.0, math.Hypot(p[0], p[1]), 1e-12)
			assert.InDelta(t, 4*v, p[2], 1e-12, "rings should sit at their axis position")
		}
	}
}

func TestCylinderNormalsPointOutward(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cyl, err := NewCylinder(zAxis(4), ConstMap2D(2))
	assert.NoError(t, err)
	for _, phi := range []float64{0, 0.7, math.Pi, 4.2} {
		for _, v := range []float64{0, 0.5, 1} {
			p := cyl.At(UV{phi, v})
			n := cyl.NormalAt(UV{phi, v})
			radial := vec3.T{p[0] / 2, p[1] / 2, 0}
			assert.InDelta(t, 1.0, vec3.Dot(&n, &radial), 1e-6,
				"normal at (%g,%g) should be radial", phi, v)
		}
	}
}

func TestCylinderVaryingRadiusTiltsNormals(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	widening := LiftV(fn.MustLinearSpline(anatomy.P(0, 1), anatomy.P(1, 2)))
	cyl, err := NewCylinder(zAxis(4), widening)
	assert.NoError(t, err)

	p0 := cyl.At(UV{0, 0})
	p1 := cyl.At(UV{0, 1})
	assert.InDelta(t, 1.0, math.Hypot(p0[0], p0[1]), 1e-12)
	assert.InDelta(t, 2.0, math.Hypot(p1[0], p1[1]), 1e-12)

	// radius grows by 1 while z grows by 4, so the outward normal
	// leans back with z component -0.25/sqrt(1.0625)
	n := cyl.NormalAt(UV{0, 0.5})
	assert.InDelta(t, -0.2425, n[2], 1e-3)
	assert.InDelta(t, 1.0, n.Length(), 1e-9)
}

func TestCylinderSectorCoversBothBoundaryAngles(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sector, err := NewCylinderSector(zAxis(1), ConstMap2D(2), 0, math.Pi)
	assert.NoError(t, err)
	verts := sector.VertexList(3, 1)
	if !assert.Equal(t, 6, len(verts)) {
		return
	}
	first := sector.At(UV{0, 0})
	last := sector.At(UV{math.Pi, 0})
	for k := 0; k < 3; k++ {
		assert.InDelta(t, first[k], float64(verts[0].Position[k]), 1e-5)
		assert.InDelta(t, last[k], float64(verts[2].Position[k]), 1e-5)
	}
}

func TestCylinderConstructorErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := NewCylinder(nil, ConstMap2D(1))
	assert.True(t, errors.Is(err, ErrNilComponent), "got %v", err)
	_, err = NewCylinder(zAxis(1), nil)
	assert.True(t, errors.Is(err, ErrNilComponent), "got %v", err)
	_, err = NewCylinderSector(zAxis(1), ConstMap2D(1), 2, 2)
	assert.True(t, errors.Is(err, ErrDegenerateSurface), "got %v", err)
	_, err = NewCylinderSector(zAxis(1), ConstMap2D(1), 2, 1)
	assert.True(t, errors.Is(err, ErrDegenerateSurface), "got %v", err)
}
