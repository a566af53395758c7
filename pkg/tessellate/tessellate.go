// Package tessellate walks a design graph and builds the wall meshes it
// describes. One Part is produced per placed wall.
package tessellate

import (
	"context"
	"fmt"
	"math"

	"github.com/chazu/wallmesh/pkg/extrude"
	"github.com/chazu/wallmesh/pkg/graph"
	"github.com/chazu/wallmesh/pkg/mesh"
	"github.com/deadsy/sdfx/sdf"
	"github.com/samber/lo"
)

// Part is one wall instance with its placed geometry.
type Part struct {
	Name     string
	NodeID   graph.NodeID
	Geometry *mesh.Geometry
	Stats    extrude.Stats
	Extents  extrude.Extents // of the unplaced path
}

// transformStack accumulates spatial transforms during graph traversal.
// Each entry is the full parent-to-world matrix at that depth.
type transformStack struct {
	frames []sdf.M44
}

func newTransformStack() *transformStack {
	return &transformStack{frames: []sdf.M44{sdf.Identity3d()}}
}

// push composes a placement onto the current frame. Rotation (degrees,
// applied X then Y then Z) happens before translation.
func (ts *transformStack) push(td graph.TransformData) {
	local := sdf.Identity3d()
	if r := td.Rotation; r != nil {
		xRad := r.X * math.Pi / 180.0
		yRad := r.Y * math.Pi / 180.0
		zRad := r.Z * math.Pi / 180.0
		local = sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	}
	if t := td.Translation; t != nil {
		local = sdf.Translate3d(t.V3()).Mul(local)
	}
	ts.frames = append(ts.frames, ts.top().Mul(local))
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 1 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

func (ts *transformStack) top() sdf.M44 {
	return ts.frames[len(ts.frames)-1]
}

// identity reports whether no placement is active.
func (ts *transformStack) identity() bool {
	return len(ts.frames) == 1
}

// Tessellate walks the design graph from its entry points and builds every
// wall it reaches. Without an assembly the entries are the top-level walls
// and placements, in name order. The tessellator never mutates the graph.
func Tessellate(g *graph.DesignGraph) ([]*Part, error) {
	return TessellateContext(context.Background(), g)
}

// TessellateContext is Tessellate with cancellation, checked before every
// wall and periodically while a wall is emitted.
func TessellateContext(ctx context.Context, g *graph.DesignGraph) ([]*Part, error) {
	if g == nil {
		return nil, nil
	}

	var parts []*Part
	ts := newTransformStack()

	for _, entry := range g.EntryPoints() {
		collected, err := walkNode(ctx, g, entry, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking %s: %w", entry.ID.Short(), err)
		}
		parts = append(parts, collected...)
	}

	return parts, nil
}

// TriangleCount sums the triangles of all parts.
func TriangleCount(parts []*Part) int {
	return lo.SumBy(parts, func(p *Part) int { return p.Geometry.TriangleCount() })
}

// Geometries returns the geometry of every part, in order.
func Geometries(parts []*Part) []*mesh.Geometry {
	return lo.Map(parts, func(p *Part, _ int) *mesh.Geometry { return p.Geometry })
}

// walkNode recursively traverses a node and its children, collecting parts.
func walkNode(ctx context.Context, g *graph.DesignGraph, n *graph.Node, ts *transformStack) ([]*Part, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		p, err := handleWall(ctx, n, ts)
		if err != nil {
			return nil, err
		}
		return []*Part{p}, nil

	case graph.NodeTransform:
		return handleTransform(ctx, g, n, ts)

	case graph.NodeGroup:
		return handleGroup(ctx, g, n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// handleWall builds a wall node and moves it into place.
func handleWall(ctx context.Context, n *graph.Node, ts *transformStack) (*Part, error) {
	wd, ok := n.Data.(graph.WallData)
	if !ok {
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}

	// Set the part name: prefer the node's Name, fall back to short ID.
	name := n.Name
	if name == "" {
		name = n.ID.Short()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	geom := mesh.NewGeometry(name)
	b, err := extrude.NewContext(ctx, geom, wd.Points(), wd.Options)
	if err != nil {
		return nil, fmt.Errorf("tessellate: wall %q: %w", name, err)
	}

	if !ts.identity() {
		geom.Transform(ts.top())
	}

	return &Part{Name: name, NodeID: n.ID, Geometry: geom, Stats: b.Stats(), Extents: b.Extents()}, nil
}

// handleTransform pushes the transform, recurses into children, then pops.
func handleTransform(ctx context.Context, g *graph.DesignGraph, n *graph.Node, ts *transformStack) ([]*Part, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	ts.push(td)
	defer ts.pop()

	var parts []*Part
	for _, child := range g.Children(n) {
		collected, err := walkNode(ctx, g, child, ts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}

// handleGroup recurses into children transparently.
func handleGroup(ctx context.Context, g *graph.DesignGraph, n *graph.Node, ts *transformStack) ([]*Part, error) {
	var parts []*Part
	for _, child := range g.Children(n) {
		collected, err := walkNode(ctx, g, child, ts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}
