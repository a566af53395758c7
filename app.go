package main

import (
	"context"
	"fmt"
	"log"

	"github.com/chazu/wallmesh/pkg/engine"
	"github.com/chazu/wallmesh/pkg/extrude"
	"github.com/chazu/wallmesh/pkg/mesh"
	"github.com/chazu/wallmesh/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the script-to-mesh pipeline.
type App struct {
	engine *engine.Engine
}

// MeshData is the JSON-serializable form of one mesh buffer. A wall that
// overflows a buffer yields several MeshData with the same part name.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	UVs      []float32 `json:"uvs"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Buffer   int       `json:"buffer"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// PartStats reports how one wall was built.
type PartStats struct {
	PartName string `json:"partName"`
	extrude.Stats
	ElevationSpan float64 `json:"elevationSpan"`
	CrossSpan     float64 `json:"crossSpan"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Stats    []PartStats     `json:"stats"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with a fresh engine.
func NewApp(opts ...engine.Option) *App {
	return &App{
		engine: engine.NewEngine(opts...),
	}
}

// Evaluate takes wall script source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	_, result := a.run(source)
	return result
}

// ExportSTL evaluates source and writes every wall into a single STL file.
func (a *App) ExportSTL(source, path string) error {
	parts, result := a.run(source)
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d error(s), first: %s", len(result.Errors), result.Errors[0].Message)
	}
	return mesh.SaveSTL(path, tessellate.Geometries(parts)...)
}

// run is the shared pipeline behind Evaluate and ExportSTL.
func (a *App) run(source string) ([]*tessellate.Part, EvalResult) {
	result := EvalResult{
		Meshes:   []MeshData{},
		Stats:    []PartStats{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Evaluate, validate and mesh under one timeout.
	res, err := a.engine.Build(context.Background(), source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Build fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil, result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return nil, result
	}
	parts := res.Parts

	// Flatten part buffers into the output format.
	for i, p := range parts {
		color := colorPalette[i%len(colorPalette)]
		for j, b := range p.Geometry.SubGeometries {
			result.Meshes = append(result.Meshes, MeshData{
				Vertices: b.Vertices,
				Normals:  b.Normals,
				UVs:      b.UVs,
				Indices:  b.Indices,
				PartName: p.Name,
				Buffer:   j,
				Color:    color,
			})
		}
		result.Stats = append(result.Stats, PartStats{
			PartName:      p.Name,
			Stats:         p.Stats,
			ElevationSpan: p.Extents.ElevationSpan,
			CrossSpan:     p.Extents.CrossSpan,
		})
	}

	return parts, result
}
