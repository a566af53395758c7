// Package geom holds the small 2D primitives used while mitering wall
// corners: parametric lines, anchor quads and texture coordinates.
// Points and vertices are sdfx vectors (v2.Vec, v3.Vec).
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// EPS is the nudge applied to degenerate coordinates and slopes.
const EPS = 1e-4

// Line2D is a line through Origin with direction Dir.
type Line2D struct {
	Origin v2.Vec
	Dir    v2.Vec
}

// LineThrough returns the line from a towards b.
func LineThrough(a, b v2.Vec) Line2D {
	return Line2D{Origin: a, Dir: b.Sub(a)}
}

// slopeIntercept returns a and b of y = a*x + b. A zero run is replaced
// by EPS so vertical lines stay representable.
func (l Line2D) slopeIntercept() (a, b float64) {
	run := l.Dir.X
	if run == 0 {
		run = EPS
	}
	a = l.Dir.Y / run
	b = l.Origin.Y - a*l.Origin.X
	return a, b
}

// Intersect returns the intersection point of two lines. Equal slopes are
// nudged apart by EPS rather than rejected. ok is false when the result is
// not finite, in which case no miter can be formed from these lines.
func Intersect(l1, l2 Line2D) (p v2.Vec, ok bool) {
	a1, b1 := l1.slopeIntercept()
	a2, b2 := l2.slopeIntercept()

	den := a1 - a2
	if den == 0 {
		den = EPS
	}
	x := (b2 - b1) / den
	y := a1*x + b1

	if !finite(x) || !finite(y) {
		return v2.Vec{}, false
	}
	return v2.Vec{X: x, Y: y}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
