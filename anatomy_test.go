package anatomy

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
	if !Is1(1.00000002) {
		t.Errorf("Expected value to count as 1, does not")
	}
	if !IsEq(0.3, 0.1+0.2) {
		t.Errorf("Expected 0.1+0.2 to equal 0.3 up to epsilon")
	}
}

func TestZapAndRound(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if Zap(1e-9) != 0 {
		t.Errorf("Expected 1e-9 to zap to 0")
	}
	if Zap(0.5) != 0.5 {
		t.Errorf("Expected 0.5 to survive zapping")
	}
	if r := Round(0.30000000004); r != 0.3 {
		t.Errorf("Expected rounding to epsilon grid, got %g", r)
	}
}

func TestPairBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := P(3, 2)
	q := P(-3, -2)
	r := p + q
	if !r.IsOrigin() {
		t.Errorf("Expected p + q to be (0,0), is %v", r)
	}
	x, y := P(1, 2).F()
	if x != 1 || y != 2 {
		t.Errorf("Expected F() to unpack (1,2), got (%g,%g)", x, y)
	}
}

func TestPairTranslationAndScaling(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if !P(1, 1).Shifted(P(-1, -1)).IsOrigin() {
		t.Errorf("Expected (1,1) shifted (-1,-1) to be origin, is not")
	}
	if !P(1, 2).Scaled(2).Equal(P(2, 4)) {
		t.Errorf("Expected (1,2) scaled by 2 to be (2,4)")
	}
	if !P(1, 2).XScaled(3).Equal(P(3, 2)) {
		t.Errorf("Expected x-scaling to leave y untouched")
	}
	if !P(1, 2).YScaled(3).Equal(P(1, 6)) {
		t.Errorf("Expected y-scaling to leave x untouched")
	}
}

func TestPairFromComplex(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if !C2P(complex(2, 1)).Equal(P(2, 1)) {
		t.Errorf("Expected C2P to preserve components")
	}
	if !C2P(complex(math.NaN(), 0)).IsOrigin() {
		t.Errorf("Expected C2P of NaN to collapse to origin")
	}
}
