package surface

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec3"
)

// --- Tests -----------------------------------------------------------

func TestCapsuleBufferLayout(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := NewCapsule(zAxis(4), ConstMap2D(1))
	assert.NoError(t, err)
	verts := c.VertexList(8, 4)
	idx := c.IndexList(8, 4)
	assert.Equal(t, 40+2*33, len(verts), "shaft plus two caps")
	assert.Equal(t, 192+2*168, len(idx))
	assertIndicesInRange(t, idx, len(verts))
}

func TestCapsuleSeamsCoincide(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := NewCapsule(zAxis(4), ConstMap2D(1))
	assert.NoError(t, err)
	resU, resV := 8, 4
	verts := c.VertexList(resU, resV)
	nShaft := resU * (resV + 1)
	nCap := resU*resV + 1

	for i := 0; i < resU; i++ {
		shaft := verts[i].Position
		capv := verts[nShaft+i].Position
		for k := 0; k < 3; k++ {
			assert.InDelta(t, float64(shaft[k]), float64(capv[k]), 1e-6,
				"front seam vertex %d should coincide", i)
		}
	}
	for k := 0; k < resU; k++ {
		shaft := verts[resV*resU+k].Position
		capv := verts[nShaft+nCap+(resU-k)%resU].Position
		for j := 0; j < 3; j++ {
			assert.InDelta(t, float64(shaft[j]), float64(capv[j]), 1e-6,
				"back seam vertex %d should coincide with its mirrored cap vertex", k)
		}
	}
}

func TestCapsuleSeamNormalsSharedAndOutward(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := NewCapsule(zAxis(4), ConstMap2D(1))
	assert.NoError(t, err)
	resU, resV := 8, 4
	verts := c.VertexList(resU, resV)
	nShaft := resU * (resV + 1)
	nCap := resU*resV + 1

	for i := 0; i < resU; i++ {
		assert.Equal(t, verts[nShaft+i].Normal, verts[i].Normal,
			"front seam normals should be shared")
	}
	for k := 0; k < resU; k++ {
		assert.Equal(t, verts[nShaft+nCap+(resU-k)%resU].Normal, verts[resV*resU+k].Normal,
			"back seam normals should be shared")
	}
	// seam normals stay close to radial on a straight tube
	for i := 0; i < resU; i++ {
		p := verts[i].Position
		n := verts[i].Normal
		radial := math.Hypot(float64(p[0]), float64(p[1]))
		out := (float64(n[0])*float64(p[0]) + float64(n[1])*float64(p[1])) / radial
		assert.Greater(t, out, 0.9, "front seam normal %d should point outward", i)
		assert.InDelta(t, 0, float64(n[2]), 1e-6, "straight tube seam normals have no axial part")
	}
}

func TestCapsuleComponentSurfaces(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := NewCapsule(zAxis(4), ConstMap2D(1))
	assert.NoError(t, err)

	// cap poles extend the axis by the seam radius
	front := c.FrontCap().At(UV{0, math.Pi / 2})
	back := c.BackCap().At(UV{0, math.Pi / 2})
	assertVec(t, vec3.T{0, 0, -1}, front, 1e-12)
	assertVec(t, vec3.T{0, 0, 5}, back, 1e-12)

	shaft := c.Shaft().At(UV{0, 0.5})
	assert.InDelta(t, 1.0, math.Hypot(shaft[0], shaft[1]), 1e-12)
	assert.InDelta(t, 2.0, shaft[2], 1e-12)
}

func TestCapsuleEmptyAtDegenerateResolution(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := NewCapsule(zAxis(4), ConstMap2D(1))
	assert.NoError(t, err)
	assert.Empty(t, c.VertexList(-1, 4))
	assert.Empty(t, c.IndexList(8, 0))
}

func TestCapsuleModelCachesGeometry(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, err := NewCapsuleModel(zAxis(4), ConstMap2D(1))
	assert.NoError(t, err)

	first, err := m.Geometry(8, 4)
	assert.NoError(t, err)
	again, err := m.Geometry(8, 4)
	assert.NoError(t, err)
	assert.Same(t, first, again, "unchanged model should reuse the cached mesh")

	finer, err := m.Geometry(16, 8)
	assert.NoError(t, err)
	assert.NotSame(t, first, finer, "resolution change should rebuild")

	assert.NoError(t, m.SetRadius(ConstMap2D(2)))
	wider, err := m.Geometry(16, 8)
	assert.NoError(t, err)
	assert.NotSame(t, finer, wider, "shape change should rebuild")
	assert.Equal(t, len(finer.Vertices), len(wider.Vertices))

	assert.NoError(t, m.SetAxis(zAxis(2)))
	shorter, err := m.Geometry(16, 8)
	assert.NoError(t, err)
	assert.NotSame(t, wider, shorter)
}

func TestCapsuleModelRejectsNilParts(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := NewCapsuleModel(nil, ConstMap2D(1))
	assert.True(t, errors.Is(err, ErrNilComponent), "got %v", err)
	_, err = NewCapsuleModel(zAxis(1), nil)
	assert.True(t, errors.Is(err, ErrNilComponent), "got %v", err)

	m, err := NewCapsuleModel(zAxis(1), ConstMap2D(1))
	assert.NoError(t, err)
	assert.Error(t, m.SetAxis(nil))
	assert.Error(t, m.SetRadius(nil))
}

func TestCapsuleModelConcurrentUse(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, err := NewCapsuleModel(zAxis(4), ConstMap2D(1))
	assert.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				if g == 0 && i%5 == 0 {
					_ = m.SetRadius(ConstMap2D(1 + float64(i)/25))
				}
				mesh, err := m.Geometry(8, 4)
				if err != nil || mesh == nil || len(mesh.Vertices) == 0 {
					t.Errorf("concurrent Geometry failed: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}
