package graph

import (
	"github.com/chazu/wallmesh/pkg/extrude"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // wall
	NodeTransform                 // placement (place)
	NodeGroup                     // logical grouping (assembly)
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// WallData is a path swept into a wall. Options are fully resolved: script
// defaults have already been applied.
type WallData struct {
	Path    []Vec3          `json:"path"`
	Options extrude.Options `json:"options"`
}

func (WallData) nodeData() {}

// Points converts the path for the mesh builder.
func (w WallData) Points() []v3.Vec {
	pts := make([]v3.Vec, len(w.Path))
	for i, p := range w.Path {
		pts[i] = p.V3()
	}
	return pts
}

// TransformData places its single child. Rotation is applied before
// translation.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees, X then Y then Z
}

func (TransformData) nodeData() {}

// GroupData represents a logical grouping (assembly, subassembly).
// Created by the (assembly ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
