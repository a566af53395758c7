package mesh

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FaceNormal returns the unit normal of the triangle (a, b, c) following
// the right-hand rule. Degenerate triangles yield the zero vector.
func FaceNormal(a, b, c v3.Vec) v3.Vec {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 || math.IsNaN(l) {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}

// Bounds returns the axis-aligned bounding box of all vertices. ok is false
// when the geometry is empty.
func (g *Geometry) Bounds() (box sdf.Box3, ok bool) {
	for _, b := range g.SubGeometries {
		for i := 0; i < b.VertexCount(); i++ {
			v := b.Vertex(i)
			if !ok {
				box = sdf.Box3{Min: v, Max: v}
				ok = true
				continue
			}
			box.Min = box.Min.Min(v)
			box.Max = box.Max.Max(v)
		}
	}
	return box, ok
}

// Translate moves every vertex by d.
func (g *Geometry) Translate(d v3.Vec) {
	for _, b := range g.SubGeometries {
		for i := 0; i+2 < len(b.Vertices); i += 3 {
			b.Vertices[i] += float32(d.X)
			b.Vertices[i+1] += float32(d.Y)
			b.Vertices[i+2] += float32(d.Z)
		}
	}
}

// Transform applies m to every vertex and recomputes the flat normals.
func (g *Geometry) Transform(m sdf.M44) {
	for _, b := range g.SubGeometries {
		for i := 0; i < b.VertexCount(); i++ {
			p := m.MulPosition(b.Vertex(i))
			b.Vertices[i*3] = float32(p.X)
			b.Vertices[i*3+1] = float32(p.Y)
			b.Vertices[i*3+2] = float32(p.Z)
		}
		b.recomputeNormals()
	}
}

// recomputeNormals rewrites one flat normal per triangle corner.
func (b *Buffer) recomputeNormals() {
	if len(b.Normals) != len(b.Vertices) {
		b.Normals = make([]float32, len(b.Vertices))
	}
	for t := 0; t < b.TriangleCount(); t++ {
		i0, i1, i2 := b.Indices[t*3], b.Indices[t*3+1], b.Indices[t*3+2]
		n := FaceNormal(b.Vertex(int(i0)), b.Vertex(int(i1)), b.Vertex(int(i2)))
		for _, idx := range []uint32{i0, i1, i2} {
			b.Normals[idx*3] = float32(n.X)
			b.Normals[idx*3+1] = float32(n.Y)
			b.Normals[idx*3+2] = float32(n.Z)
		}
	}
}

// Triangles converts all buffers to sdfx triangles.
func (g *Geometry) Triangles() []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, g.TriangleCount())
	for _, b := range g.SubGeometries {
		for t := 0; t < b.TriangleCount(); t++ {
			tri := &sdf.Triangle3{
				b.Vertex(int(b.Indices[t*3])),
				b.Vertex(int(b.Indices[t*3+1])),
				b.Vertex(int(b.Indices[t*3+2])),
			}
			tris = append(tris, tri)
		}
	}
	return tris
}

// SaveSTL writes the given geometries to a single STL file.
func SaveSTL(path string, geoms ...*Geometry) error {
	var tris []*sdf.Triangle3
	for _, g := range geoms {
		tris = append(tris, g.Triangles()...)
	}
	if len(tris) == 0 {
		return fmt.Errorf("mesh: nothing to write to %s", path)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("mesh: save stl %s: %w", path, err)
	}
	return nil
}
