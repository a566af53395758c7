// Package mesh defines the triangle buffers produced by the wall builder and
// the container that receives them. All arrays are flat: vertices and
// normals have 3 floats per vertex, uvs 2 floats per vertex, indices
// 3 uint32s per triangle.
package mesh

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MaxVertices is the largest vertex count a single buffer may hold so that
// every index fits the 16-bit index space of the target renderers.
const MaxVertices = 65535

// Buffer is one flush unit of triangle data. Indices only ever reference
// vertices of the same buffer.
type Buffer struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	UVs      []float32 `json:"uvs"`      // [u0,v0, u1,v1, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (b *Buffer) VertexCount() int {
	return len(b.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (b *Buffer) TriangleCount() int {
	return len(b.Indices) / 3
}

// IsEmpty returns true if the buffer has no geometry.
func (b *Buffer) IsEmpty() bool {
	return len(b.Vertices) == 0
}

// Vertex returns vertex i as a vector.
func (b *Buffer) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(b.Vertices[i*3]),
		Y: float64(b.Vertices[i*3+1]),
		Z: float64(b.Vertices[i*3+2]),
	}
}

// Validate checks array lengths, index bounds and the vertex limit.
func (b *Buffer) Validate() error {
	if len(b.Vertices)%3 != 0 {
		return fmt.Errorf("mesh: vertex array length %d is not a multiple of 3", len(b.Vertices))
	}
	if len(b.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index array length %d is not a multiple of 3", len(b.Indices))
	}
	n := b.VertexCount()
	if n > MaxVertices {
		return fmt.Errorf("mesh: buffer holds %d vertices, limit is %d", n, MaxVertices)
	}
	if len(b.Normals) != 0 && len(b.Normals) != len(b.Vertices) {
		return fmt.Errorf("mesh: normals length %d != vertices length %d", len(b.Normals), len(b.Vertices))
	}
	if len(b.UVs) != 0 && len(b.UVs) != n*2 {
		return fmt.Errorf("mesh: uvs length %d, want %d", len(b.UVs), n*2)
	}
	for i, idx := range b.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh: index %d at position %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Sink receives finished buffers. Reset discards everything received so
// far, ahead of a full rebuild.
type Sink interface {
	Reset()
	AppendSubGeometry(b *Buffer)
}

// Compile-time interface check.
var _ Sink = (*Geometry)(nil)

// Geometry is a named list of buffers, the default Sink.
type Geometry struct {
	Name          string    `json:"name"`
	SubGeometries []*Buffer `json:"subGeometries"`
}

// NewGeometry returns an empty geometry with the given name.
func NewGeometry(name string) *Geometry {
	return &Geometry{Name: name}
}

// Reset drops all buffers.
func (g *Geometry) Reset() {
	g.SubGeometries = nil
}

// AppendSubGeometry adds a finished buffer.
func (g *Geometry) AppendSubGeometry(b *Buffer) {
	g.SubGeometries = append(g.SubGeometries, b)
}

// VertexCount returns the number of vertices across all buffers.
func (g *Geometry) VertexCount() int {
	n := 0
	for _, b := range g.SubGeometries {
		n += b.VertexCount()
	}
	return n
}

// TriangleCount returns the number of triangles across all buffers.
func (g *Geometry) TriangleCount() int {
	n := 0
	for _, b := range g.SubGeometries {
		n += b.TriangleCount()
	}
	return n
}

// IsEmpty returns true if no buffer holds geometry.
func (g *Geometry) IsEmpty() bool {
	return g.VertexCount() == 0
}

// Validate validates every buffer.
func (g *Geometry) Validate() error {
	for i, b := range g.SubGeometries {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("buffer %d: %w", i, err)
		}
	}
	return nil
}
