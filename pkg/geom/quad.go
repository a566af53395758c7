package geom

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// AnchorQuad holds the four thickness-offset corners of one path edge.
// P1/P2 are the leading pair (at the edge start), P3/P4 the trailing pair.
// P1 and P3 lie on one side of the edge, P2 and P4 on the other.
type AnchorQuad struct {
	P1, P2, P3, P4 v2.Vec
}

// Side1 returns the line along the P1/P3 side.
func (q AnchorQuad) Side1() Line2D { return LineThrough(q.P1, q.P3) }

// Side2 returns the line along the P2/P4 side.
func (q AnchorQuad) Side2() Line2D { return LineThrough(q.P2, q.P4) }

// UV is a texture coordinate.
type UV struct {
	U, V float64
}

// InvertU mirrors the coordinate horizontally.
func (uv UV) InvertU() UV {
	return UV{U: 1 - uv.U, V: uv.V}
}
