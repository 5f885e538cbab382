package fn

import (
	"fmt"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"

	anatomy "github.com/Freedom-of-Form-Foundation/anatomy3d-sub000"
)

// === Mutable Spline Container ==============================================

// SplineKind selects the interpolation a MutableSpline rebuilds its
// snapshots with. The zero value is the cubic spline.
type SplineKind int

const (
	KindCubic SplineKind = iota
	KindLinear
	KindQuadratic
)

func (k SplineKind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindQuadratic:
		return "quadratic"
	}
	return "cubic"
}

// MutableSpline is a thread-safe registry of movable control points
// that hands out immutable spline snapshots on demand. Points are kept
// ordered by their x coordinate in a gods treemap; a single mutex
// serializes point mutation, structural mutation and snapshot access.
//
// Snapshots are rebuilt lazily: mutations only mark the container
// dirty, and the next Curve call pays for the rebuild. Repeated Curve
// calls without intervening mutation return the identical snapshot.
type MutableSpline struct {
	mu     sync.Mutex
	kind   SplineKind
	points *treemap.Map // anatomy.Real -> *MovingPoint
	cache  Derivable
	dirty  bool
}

// MovingPoint is a handle on one control point of a MutableSpline.
// Its coordinates are guarded by the owning container's mutex, so
// distinct points may be moved from distinct goroutines. A handle
// whose point has been removed, or displaced by a later Add at the
// same x, reports ErrPointRemoved from every mutation.
type MovingPoint struct {
	owner    *MutableSpline
	attached bool // guarded by owner.mu
	x, y     float64
}

// NewMutableSpline creates a container rebuilding snapshots of the
// given kind, seeded with the given control points. Seeding follows
// Add semantics: a repeated x displaces the earlier point.
func NewMutableSpline(kind SplineKind, points ...anatomy.Pair) *MutableSpline {
	ms := &MutableSpline{
		kind:   kind,
		points: treemap.NewWith(anatomy.RealComparator),
		dirty:  true,
	}
	for _, p := range points {
		ms.addLocked(p.X(), p.Y())
	}
	return ms
}

// Add inserts a control point and returns its handle. Adding at an x
// already occupied displaces the occupant: the old handle detaches and
// the new point takes its place.
func (ms *MutableSpline) Add(x, y float64) *MovingPoint {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.addLocked(x, y)
}

func (ms *MutableSpline) addLocked(x, y float64) *MovingPoint {
	if prev, ok := ms.points.Get(anatomy.Real(x)); ok {
		prev.(*MovingPoint).attached = false
	}
	p := &MovingPoint{owner: ms, attached: true, x: x, y: y}
	ms.points.Put(anatomy.Real(x), p)
	ms.dirty = true
	return p
}

// Remove deletes a control point. Removing an already detached handle
// returns ErrPointRemoved.
func (ms *MutableSpline) Remove(p *MovingPoint) error {
	if p == nil {
		return fmt.Errorf("%w: nil point handle", ErrPointRemoved)
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if p.owner != ms || !p.attached {
		return fmt.Errorf("%w: point (%g,%g)", ErrPointRemoved, p.x, p.y)
	}
	ms.points.Remove(anatomy.Real(p.x))
	p.attached = false
	ms.dirty = true
	return nil
}

// Len returns the number of control points.
func (ms *MutableSpline) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.points.Size()
}

// Kind returns the snapshot interpolation kind.
func (ms *MutableSpline) Kind() SplineKind {
	return ms.kind
}

// ControlPoints returns the current points in increasing x order.
func (ms *MutableSpline) ControlPoints() []anatomy.Pair {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.pairsLocked()
}

func (ms *MutableSpline) pairsLocked() []anatomy.Pair {
	points := make([]anatomy.Pair, 0, ms.points.Size())
	it := ms.points.Iterator()
	for it.Next() {
		p := it.Value().(*MovingPoint)
		points = append(points, anatomy.P(p.x, p.y))
	}
	return points
}

// Curve returns the spline through the current control points. A clean
// container returns the cached snapshot, so callers observing the same
// reference twice know nothing moved in between. Snapshots are
// immutable; later mutations dirty the container and the next Curve
// call rebuilds, never touching snapshots already handed out.
//
// Construction failures (fewer than two points) propagate and leave
// the container dirty.
func (ms *MutableSpline) Curve() (Derivable, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if !ms.dirty && ms.cache != nil {
		return ms.cache, nil
	}
	points := ms.pairsLocked()
	tracer().Debugf("rebuilding %s spline snapshot from %d control points",
		ms.kind, len(points))
	var (
		snapshot Derivable
		err      error
	)
	switch ms.kind {
	case KindLinear:
		snapshot, err = NewLinearSpline(points)
	case KindQuadratic:
		snapshot, err = NewQuadraticSpline(points)
	default:
		snapshot, err = NewCubicSpline(points)
	}
	if err != nil {
		return nil, err
	}
	ms.cache = snapshot
	ms.dirty = false
	return snapshot, nil
}

func (ms *MutableSpline) String() string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return fmt.Sprintf("mutable %s spline, %d points", ms.kind, ms.points.Size())
}

// X returns the point's current x coordinate.
func (p *MovingPoint) X() float64 {
	p.owner.mu.Lock()
	defer p.owner.mu.Unlock()
	return p.x
}

// Y returns the point's current y coordinate.
func (p *MovingPoint) Y() float64 {
	p.owner.mu.Lock()
	defer p.owner.mu.Unlock()
	return p.y
}

// Attached reports whether the point is still part of its container.
func (p *MovingPoint) Attached() bool {
	p.owner.mu.Lock()
	defer p.owner.mu.Unlock()
	return p.attached
}

// Set changes the point's value, keeping its x. The mutation is
// observable through the container before the snapshot cache is
// invalidated.
func (p *MovingPoint) Set(y float64) error {
	p.owner.mu.Lock()
	defer p.owner.mu.Unlock()
	if !p.attached {
		return fmt.Errorf("%w: point (%g,%g)", ErrPointRemoved, p.x, p.y)
	}
	p.y = y
	p.owner.dirty = true
	return nil
}

// MoveTo changes both coordinates. Moving onto an x occupied by
// another point displaces that point, detaching its handle.
func (p *MovingPoint) MoveTo(x, y float64) error {
	p.owner.mu.Lock()
	defer p.owner.mu.Unlock()
	if !p.attached {
		return fmt.Errorf("%w: point (%g,%g)", ErrPointRemoved, p.x, p.y)
	}
	if x != p.x {
		if prev, ok := p.owner.points.Get(anatomy.Real(x)); ok {
			prev.(*MovingPoint).attached = false
		}
		p.owner.points.Remove(anatomy.Real(p.x))
		p.owner.points.Put(anatomy.Real(x), p)
	}
	p.x, p.y = x, y
	p.owner.dirty = true
	return nil
}

func (p *MovingPoint) String() string {
	p.owner.mu.Lock()
	defer p.owner.mu.Unlock()
	return anatomy.P(p.x, p.y).String()
}
