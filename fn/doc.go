// Package fn provides continuous-function objects: evaluable maps,
// derivable polynomial functions, interpolating 1D splines, and the
// analytic raytrace solving that turns a ray/surface intersection into
// a polynomial equation.
/*

The package is built around three capability layers instead of a type
hierarchy. A Map is anything that evaluates an output for an input. A
Derivable additionally produces n-th derivatives. A Raytraceable1D can
intersect the square of itself with a quadratic distance function, the
operation surfaces of revolution need for analytic raytracing, see
SolveRaytrace.

Concrete functions come in two families:

Polynomial functions (Constant, Quadratic, Cubic, Quartic) are plain
coefficient records, evaluated by Horner's scheme. Constant and
Quadratic are raytraceable: substituting a linear ray into them and
squaring stays within degree four, which the roots package solves in
closed form. The squares of Cubic and Quartic exceed degree four, so
they are derivable only.

Interpolating splines (LinearSpline, QuadraticSpline, CubicSpline) are
piecewise polynomials over a strictly increasing knot vector. The cubic
spline is the classic natural spline: second derivatives at the ends
are zero and the interior moments come from a tridiagonal system solved
with the Thomas algorithm (see e.g. Press et al., Numerical Recipes,
ch. 3.3). The quadratic spline deliberately trades smoothness for
raytraceability: it is built with a single forward recurrence that only
enforces first-derivative continuity, keeping each segment's square
within quartic degree. The linear spline connects control points with
straight segments.

Evaluating any spline outside its knot range is a contract violation
and panics; splines never extrapolate silently.

Construction sites pass control points as anatomy.Pair literals:

   s, err := fn.NewCubicSpline([]anatomy.Pair{
       anatomy.P(-1, 0.5),
       anatomy.P(0, 0),
       anatomy.P(3, 3),
   })

or hand over a gods treemap keyed by anatomy.Real, the form the mutable
container uses internally.

MutableSpline wraps a spline in an editable, thread-safe set of control
points. Points are moved through MovingPoint handles; every mutation
invalidates a cached immutable snapshot which is rebuilt lazily on the
next Curve() call. See the type documentation for the locking contract.

# BSD License

# Copyright (c) Freedom of Form Foundation

All rights reserved.

Please refer to the license file for more information.
*/
package fn
