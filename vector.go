package anatomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"
)

// === Vector Spaces =========================================================

var (
	// ErrBadSpace indicates a nil space or a non-positive dimension.
	ErrBadSpace = errors.New("vector space must have positive dimension")
	// ErrDimensionMismatch indicates element count differing from the space dimension.
	ErrDimensionMismatch = errors.New("element count does not match space dimension")
	// ErrIndexOutOfRange indicates vector indexing beyond the space dimension.
	ErrIndexOutOfRange = errors.New("vector index out of range")
)

// Space tags vectors with the semantic space they live in. Two vectors
// compare equal only if their spaces compare equal, which keeps, say,
// a parameter-space tuple from masquerading as a world-space point.
// Implementations must be comparable values with a constant dimension.
type Space interface {
	Dim() int
	Name() string
}

type worldSpace struct{}

func (worldSpace) Dim() int     { return 3 }
func (worldSpace) Name() string { return "world3d" }

type zeroSpace struct{}

func (zeroSpace) Dim() int     { return 0 }
func (zeroSpace) Name() string { return "zero" }

type namedSpace struct {
	name string
	dim  int
}

func (s namedSpace) Dim() int     { return s.dim }
func (s namedSpace) Name() string { return s.name }

// World3D is the shared 3-dimensional model space.
var World3D Space = worldSpace{}

// ZeroSpace is the one space allowed to have dimension 0. All its
// vectors are equal.
var ZeroSpace Space = zeroSpace{}

// ArbitrarySpace creates a named space of the given dimension. Spaces
// with the same name and dimension are the same space. The dimension
// must be positive; the zero-dimensional case is only available as
// ZeroSpace.
func ArbitrarySpace(name string, dim int) Space {
	if dim < 1 {
		panic(fmt.Errorf("%w: %q declared with dim %d", ErrBadSpace, name, dim))
	}
	return namedSpace{name: name, dim: dim}
}

// === Vector Data Type ======================================================

// Vector is an immutable numeric tuple tagged with its Space. The
// element count always equals the space dimension.
type Vector struct {
	space Space
	els   []float64
}

// NewVector creates a vector of the given space. It fails with
// ErrDimensionMismatch unless exactly space.Dim() elements are given.
func NewVector(space Space, els ...float64) (Vector, error) {
	if space == nil {
		return Vector{}, fmt.Errorf("%w: nil space", ErrBadSpace)
	}
	if len(els) != space.Dim() {
		return Vector{}, fmt.Errorf("%w: space %q has dim %d, got %d elements",
			ErrDimensionMismatch, space.Name(), space.Dim(), len(els))
	}
	AssertFinite("vector elements", els...)
	v := Vector{space: space, els: make([]float64, len(els))}
	copy(v.els, els)
	return v, nil
}

// MustVector is like NewVector, but panics on invalid input.
func MustVector(space Space, els ...float64) Vector {
	v, err := NewVector(space, els...)
	if err != nil {
		panic(err)
	}
	return v
}

// VectorOf tags a 3D point with World3D.
func VectorOf(p vec3.T) Vector {
	return MustVector(World3D, p[0], p[1], p[2])
}

// Space returns the tag this vector was created with.
func (v Vector) Space() Space {
	return v.space
}

// Dim returns the space dimension (and element count).
func (v Vector) Dim() int {
	return len(v.els)
}

// At returns element i. Indexing outside 0..Dim()-1 is a contract
// violation and panics.
func (v Vector) At(i int) float64 {
	if i < 0 || i >= len(v.els) {
		panic(fmt.Errorf("%w: index %d, dim %d", ErrIndexOutOfRange, i, len(v.els)))
	}
	return v.els[i]
}

// X is shorthand for At(0).
func (v Vector) X() float64 { return v.At(0) }

// Y is shorthand for At(1).
func (v Vector) Y() float64 { return v.At(1) }

// Z is shorthand for At(2).
func (v Vector) Z() float64 { return v.At(2) }

// Floats returns a copy of the elements.
func (v Vector) Floats() []float64 {
	els := make([]float64, len(v.els))
	copy(els, v.els)
	return els
}

// Vec3 converts a 3-dimensional vector to a go3d point.
func (v Vector) Vec3() vec3.T {
	if len(v.els) != 3 {
		panic(fmt.Errorf("%w: vec3 needs dim 3, space %q has dim %d",
			ErrDimensionMismatch, v.space.Name(), len(v.els)))
	}
	return vec3.T{v.els[0], v.els[1], v.els[2]}
}

// Equals reports whether both vectors live in the same space and hold
// element-wise equal values. Element comparison is Real.Equals, i.e.
// reflexive for NaN.
func (v Vector) Equals(w Vector) bool {
	if v.space == nil || w.space == nil {
		return v.space == w.space && len(v.els) == 0 && len(w.els) == 0
	}
	if v.space != w.space {
		return false
	}
	for i := range v.els {
		if !Real(v.els[i]).Equals(Real(w.els[i])) {
			return false
		}
	}
	return true
}

// Pretty Stringer, e.g. "world3d(1, 2, 3)".
func (v Vector) String() string {
	var sb strings.Builder
	if v.space == nil {
		return "vector(<no space>)"
	}
	sb.WriteString(v.space.Name())
	sb.WriteByte('(')
	for i, el := range v.els {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", el)
	}
	sb.WriteByte(')')
	return sb.String()
}
