package extrude

import (
	"math"
	"testing"

	"github.com/chazu/wallmesh/pkg/geom"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func near2(a, b v2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestComputeAnchorsStraightEdge(t *testing.T) {
	path := []v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}}
	anchors := ComputeAnchors(path, AxisY, 2)
	if len(anchors) != 1 {
		t.Fatalf("got %d anchors, want 1", len(anchors))
	}
	q := anchors[0]
	want := geom.AnchorQuad{
		P1: v2.Vec{X: 0, Y: -1},
		P2: v2.Vec{X: 0, Y: 1},
		P3: v2.Vec{X: 10, Y: -1},
		P4: v2.Vec{X: 10, Y: 1},
	}
	for i, pair := range [][2]v2.Vec{{q.P1, want.P1}, {q.P2, want.P2}, {q.P3, want.P3}, {q.P4, want.P4}} {
		if !near2(pair[0], pair[1], 1e-3) {
			t.Errorf("P%d = %v, want %v", i+1, pair[0], pair[1])
		}
	}
}

func TestComputeAnchorsDoesNotMutatePath(t *testing.T) {
	path := []v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 5}, {X: 5, Y: 0, Z: 5}}
	orig := append([]v3.Vec(nil), path...)

	_, nudges := computeAnchors(path, AxisY, 1)
	if nudges == 0 {
		t.Error("expected degenerate coordinates to be nudged")
	}
	for i := range path {
		if path[i] != orig[i] {
			t.Errorf("path[%d] = %v, want %v", i, path[i], orig[i])
		}
	}
}

func TestComputeAnchorsTooShort(t *testing.T) {
	if got := ComputeAnchors([]v3.Vec{{X: 1}}, AxisY, 1); got != nil {
		t.Errorf("ComputeAnchors(1 point) = %v, want nil", got)
	}
}

func TestJoinAnchorsMitersCorner(t *testing.T) {
	path := []v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 10}}
	joints := JoinAnchors(ComputeAnchors(path, AxisY, 2))
	if len(joints) != 2 {
		t.Fatalf("got %d joints, want 2", len(joints))
	}
	if joints[0].Fallback || joints[1].Fallback {
		t.Fatal("no joint should fall back on a right angle")
	}
	if !near2(joints[0].Quad.P3, v2.Vec{X: 11, Y: -1}, 1e-3) {
		t.Errorf("outer miter = %v, want near (11, -1)", joints[0].Quad.P3)
	}
	if !near2(joints[0].Quad.P4, v2.Vec{X: 9, Y: 1}, 1e-3) {
		t.Errorf("inner miter = %v, want near (9, 1)", joints[0].Quad.P4)
	}
	if joints[1].Quad.P1 != joints[0].Quad.P3 || joints[1].Quad.P2 != joints[0].Quad.P4 {
		t.Error("second joint should start where the first ends")
	}
}

func TestJoinAnchorsSingleEdgeUnchanged(t *testing.T) {
	q := geom.AnchorQuad{
		P1: v2.Vec{X: 0, Y: 1}, P2: v2.Vec{X: 0, Y: -1},
		P3: v2.Vec{X: 4, Y: 1}, P4: v2.Vec{X: 4, Y: -1},
	}
	joints := JoinAnchors([]geom.AnchorQuad{q})
	if len(joints) != 1 || joints[0].Quad != q || joints[0].Fallback {
		t.Errorf("JoinAnchors(single) = %+v, want raw quad", joints)
	}
	if JoinAnchors(nil) != nil {
		t.Error("JoinAnchors(nil) should be nil")
	}
}

func TestJoinAnchorsFallback(t *testing.T) {
	steep := geom.AnchorQuad{
		P1: v2.Vec{X: 1e10, Y: 0}, P3: v2.Vec{X: 1e10 + 1, Y: 1e308},
		P2: v2.Vec{X: 0, Y: 5}, P4: v2.Vec{X: 1, Y: 6},
	}
	flat := geom.AnchorQuad{
		P1: v2.Vec{X: 0, Y: 0}, P3: v2.Vec{X: 1, Y: 0},
		P2: v2.Vec{X: 0, Y: 2}, P4: v2.Vec{X: 1, Y: 3},
	}
	joints := JoinAnchors([]geom.AnchorQuad{steep, flat})
	if !joints[0].Fallback {
		t.Fatal("expected the first corner to fall back")
	}
	if joints[0].Quad.P3 != steep.P3 || joints[0].Quad.P4 != steep.P4 {
		t.Errorf("fallback should keep the raw trailing edge, got %+v", joints[0].Quad)
	}
	if joints[1].Quad.P1 != steep.P3 {
		t.Error("next joint should continue from the fallback edge")
	}
}

func TestElevate(t *testing.T) {
	got := Elevate(v3.Vec{X: 1, Y: 2, Z: 3}, AxisZ, 0.5, 3)
	want := []float64{3.5, 4, 4.5}
	if len(got) != len(want) {
		t.Fatalf("got %d snapshots, want %d", len(got), len(want))
	}
	for i, v := range got {
		if v.Z != want[i] || v.X != 1 || v.Y != 2 {
			t.Errorf("snapshot %d = %v, want z=%v", i, v, want[i])
		}
	}
}

func TestThicknessRailsAligned(t *testing.T) {
	path := []v3.Vec{{X: 0}, {X: 10}, {X: 10, Z: 10}}
	joints := JoinAnchors(ComputeAnchors(path, AxisY, 2))
	outer, inner := thicknessRails(path, joints, AxisY, 1, 3)

	if len(outer) != len(path)*4 || len(inner) != len(outer) {
		t.Fatalf("rail lengths = %d/%d, want %d", len(outer), len(inner), len(path)*4)
	}
	for i := range outer {
		if outer[i].Y != inner[i].Y {
			t.Errorf("rails out of step at %d: %v vs %v", i, outer[i].Y, inner[i].Y)
		}
	}
}
