package extrude

import (
	"log/slog"
	"math"

	"github.com/chazu/wallmesh/pkg/geom"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Joint is one path edge's anchor quad after mitering. Fallback is set when
// the miter intersection at the edge's trailing corner failed and the raw,
// square-cut trailing edge was kept instead.
type Joint struct {
	Quad     geom.AnchorQuad
	Fallback bool
}

// ComputeAnchors returns one anchor quad per path edge, offset by half the
// thickness on either side of the edge in the plane perpendicular to axis.
// The path is not modified.
func ComputeAnchors(path []v3.Vec, axis Axis, thickness float64) []geom.AnchorQuad {
	anchors, _ := computeAnchors(path, axis, thickness)
	return anchors
}

// computeAnchors also reports how many coordinates were nudged by EPS.
func computeAnchors(path []v3.Vec, axis Axis, thickness float64) ([]geom.AnchorQuad, int) {
	if len(path) < 2 {
		return nil, 0
	}
	pts := make([]v2.Vec, len(path))
	for i, p := range path {
		pts[i] = axis.project(p)
	}

	radius := thickness * 0.5
	nudges := 0
	anchors := make([]geom.AnchorQuad, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		// A point at the plane origin has no defined angle.
		if pts[i].X == 0 && pts[i].Y == 0 {
			pts[i].X = geom.EPS
			nudges++
		}
		// Shared coordinates would give a zero-length offset direction.
		if pts[i+1].Y != 0 && pts[i].Y == pts[i+1].Y {
			pts[i+1].Y += geom.EPS
			nudges++
		}
		if pts[i].X != 0 && pts[i].X == pts[i+1].X {
			pts[i+1].X += geom.EPS
			nudges++
		}
		anchors = append(anchors, defineAnchor(pts[i], pts[i+1], radius))
	}
	if nudges > 0 {
		Logger().Debug("extrude: nudged degenerate path coordinates", slog.Int("count", nudges))
	}
	return anchors, nudges
}

// defineAnchor offsets both edge endpoints by radius along the edge normal.
func defineAnchor(base, end v2.Vec, radius float64) geom.AnchorQuad {
	angle := math.Atan2(base.Y-end.Y, base.X-end.X) - 1.5*math.Pi
	off := v2.Vec{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius}
	return geom.AnchorQuad{
		P1: base.Add(off),
		P2: base.Sub(off),
		P3: end.Add(off),
		P4: end.Sub(off),
	}
}

// JoinAnchors stitches consecutive anchor quads into mitered joints. Each
// joint's leading edge is the previous joint's trailing edge, so the rails
// stay continuous. A trailing edge is the intersection of this edge's sides
// with the next edge's sides; the last edge keeps its raw trailing edge.
// A single edge is returned unchanged.
func JoinAnchors(anchors []geom.AnchorQuad) []Joint {
	if len(anchors) == 0 {
		return nil
	}
	joints := make([]Joint, len(anchors))
	for i, a := range anchors {
		j := Joint{Quad: a}
		if i > 0 {
			prev := joints[i-1].Quad
			j.Quad.P1, j.Quad.P2 = prev.P3, prev.P4
		}
		if i < len(anchors)-1 {
			next := anchors[i+1]
			c1, ok1 := geom.Intersect(next.Side1(), a.Side1())
			c2, ok2 := geom.Intersect(a.Side2(), next.Side2())
			if ok1 && ok2 {
				j.Quad.P3, j.Quad.P4 = c1, c2
			} else {
				j.Fallback = true
				Logger().Warn("extrude: corner could not be mitered, keeping square end", slog.Int("edge", i))
			}
		}
		joints[i] = j
	}
	return joints
}
