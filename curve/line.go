package curve

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
)

// LineSegment is the straight curve from start to end, with a
// constant frame. The normal is an arbitrary but deterministic unit
// vector perpendicular to the segment, so equal segments get equal
// frames.
type LineSegment struct {
	start, end vec3.T
	tangent    vec3.T
	normal     vec3.T
	binormal   vec3.T
	length     float64
}

// NewLineSegment creates the segment from start to end. Coinciding
// endpoints leave no direction to build a frame from and return
// ErrDegenerateCurve.
func NewLineSegment(start, end vec3.T) (*LineSegment, error) {
	if start == end {
		tracer().Errorf("degenerate line segment at %v", start)
		return nil, fmt.Errorf("%w: start = end = %v", ErrDegenerateCurve, start)
	}
	dir := vec3.Sub(&end, &start)
	length := dir.Length()
	tangent := dir.Scaled(1 / length)
	normal := perpendicularTo(tangent)
	binormal := vec3.Cross(&normal, &tangent)
	return &LineSegment{
		start:    start,
		end:      end,
		tangent:  tangent,
		normal:   normal,
		binormal: binormal,
		length:   length,
	}, nil
}

// MustLineSegment is like NewLineSegment but panics on degenerate
// input.
func MustLineSegment(start, end vec3.T) *LineSegment {
	l, err := NewLineSegment(start, end)
	if err != nil {
		panic(err)
	}
	return l
}

// At is a synonym for PositionAt.
func (l *LineSegment) At(t float64) vec3.T {
	return l.PositionAt(t)
}

// PositionAt interpolates linearly; t outside [0,1] extrapolates
// along the carrier line.
func (l *LineSegment) PositionAt(t float64) vec3.T {
	return vec3.Interpolate(&l.start, &l.end, t)
}

// TangentAt returns the constant unit direction.
func (l *LineSegment) TangentAt(float64) vec3.T {
	return l.tangent
}

// NormalAt returns the constant unit normal.
func (l *LineSegment) NormalAt(float64) vec3.T {
	return l.normal
}

// BinormalAt returns normal × tangent.
func (l *LineSegment) BinormalAt(float64) vec3.T {
	return l.binormal
}

// Start returns the segment's first endpoint.
func (l *LineSegment) Start() vec3.T {
	return l.start
}

// End returns the segment's second endpoint.
func (l *LineSegment) End() vec3.T {
	return l.end
}

// SpeedAt returns the constant parametric speed, the chord length.
func (l *LineSegment) SpeedAt(float64) float64 {
	return l.length
}

func (l *LineSegment) String() string {
	return fmt.Sprintf("line %v -> %v", l.start, l.end)
}

var _ Curve = (*LineSegment)(nil)
