package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/chazu/wallmesh/pkg/extrude"
	"github.com/samber/lo"
)

// GlobalDefaults contains graph-wide default settings.
type GlobalDefaults struct {
	Units string          `json:"units"` // informational only
	Wall  extrude.Options `json:"wall"`  // applied to walls before their own arguments
}

// DesignGraph is the top-level immutable data structure produced by script
// evaluation. It is never mutated in place; each evaluation produces a new
// graph.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  GlobalDefaults    `json:"defaults"`
}

// New creates an empty DesignGraph with default settings.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Defaults: GlobalDefaults{
			Units: "m",
			Wall:  extrude.DefaultOptions(),
		},
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *DesignGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Walls returns all wall nodes sorted by name, so output order does not
// depend on map iteration.
func (g *DesignGraph) Walls() []*Node {
	return sortedByName(lo.Filter(lo.Values(g.Nodes), func(n *Node, _ int) bool {
		return n.Kind == NodePrimitive
	}))
}

// EntryPoints returns the nodes a traversal starts from. Explicit roots win.
// Without them every node that no other node references is an entry, so a
// top-level placement is honored and the wall it places is not built a
// second time. Implicit entries are sorted by name.
func (g *DesignGraph) EntryPoints() []*Node {
	if len(g.Roots) > 0 {
		return lo.FilterMap(g.Roots, func(id NodeID, _ int) (*Node, bool) {
			n := g.Nodes[id]
			return n, n != nil
		})
	}
	referenced := make(map[NodeID]bool)
	for _, n := range g.Nodes {
		for _, cid := range n.Children {
			referenced[cid] = true
		}
	}
	return sortedByName(lo.Filter(lo.Values(g.Nodes), func(n *Node, _ int) bool {
		return !referenced[n.ID]
	}))
}

// sortedByName orders nodes by name, then by ID for unnamed placements.
func sortedByName(nodes []*Node) []*Node {
	slices.SortFunc(nodes, func(a, b *Node) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return nodes
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
