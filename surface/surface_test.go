package surface

import (
	"errors"
	"testing"

	"github.com/Freedom-of-Form-Foundation/anatomy3d-sub000/fn"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec3"
)

// --- Helpers ---------------------------------------------------------

func mustPanicWith(t *testing.T, want error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("Expected a panic, got none")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Errorf("Expected panic with %v, got %v", want, r)
		}
	}()
	f()
}

func assertVec(t *testing.T, want, got vec3.T, eps float64) {
	t.Helper()
	for k := 0; k < 3; k++ {
		assert.InDelta(t, want[k], got[k], eps, "component %d of %v", k, got)
	}
}

// --- Tests -----------------------------------------------------------

func TestUVAccessors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	uv := UV{1.5, -2}
	assert.Equal(t, 1.5, uv.U())
	assert.Equal(t, -2.0, uv.V())
	assert.Equal(t, "(1.5,-2)", uv.String())
}

func TestParameterMaps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, 3.0, ConstMap2D(3).At(UV{9, -9}))
	line := fn.Quadratic{C0: 1, C1: 1}
	assert.Equal(t, 3.0, LiftU(line).At(UV{2, 100}), "lift over u should ignore v")
	assert.Equal(t, 101.0, LiftV(line).At(UV{2, 100}), "lift over v should ignore u")
	assert.Equal(t, 3.5, Offset(LiftU(line), 0.5).At(UV{2, 0}))
}

func TestLiftingNilPanics(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	mustPanicWith(t, fn.ErrNilMap, func() { LiftU(nil) })
	mustPanicWith(t, fn.ErrNilMap, func() { LiftV(nil) })
	mustPanicWith(t, fn.ErrNilMap, func() { Offset(nil, 1) })
}

func TestRayAt(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := Ray{Origin: vec3.T{1, 0, 0}, Dir: vec3.T{0, 2, 0}}
	assertVec(t, vec3.T{1, 1, 0}, r.At(0.5), 1e-12)
	assertVec(t, vec3.T{1, 0, 0}, r.At(0), 1e-12)
	assertVec(t, vec3.T{1, -2, 0}, r.At(-1), 1e-12) // rays extend backwards for evaluation
}
