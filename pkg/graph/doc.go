// Package graph defines the design graph for wallmesh. A design graph is an
// immutable DAG of walls, placements and assemblies produced by evaluating
// a wall script; tessellation turns it into meshes.
package graph
