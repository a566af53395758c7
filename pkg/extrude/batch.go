package extrude

import (
	"log/slog"

	"github.com/chazu/wallmesh/pkg/mesh"
)

// Limit is the maximum number of vertex floats one buffer may hold
// (three per vertex). A face that would push a buffer past it starts a new
// buffer.
const Limit = mesh.MaxVertices * 3

// Batcher packs faces into buffers of at most Limit vertex floats and hands
// each finished buffer to its sink.
type Batcher struct {
	sink    mesh.Sink
	buf     *mesh.Buffer
	flushed int
	faces   int
}

// NewBatcher returns a batcher feeding sink.
func NewBatcher(sink mesh.Sink) *Batcher {
	return &Batcher{sink: sink, buf: &mesh.Buffer{}}
}

// AddFace appends f as three unshared vertices with a flat normal.
func (b *Batcher) AddFace(f Face) {
	if len(b.buf.Vertices)+9 > Limit {
		b.Flush()
	}
	n := mesh.FaceNormal(f.V[0], f.V[1], f.V[2])
	base := uint32(len(b.buf.Vertices) / 3)
	for k := 0; k < 3; k++ {
		v, uv := f.V[k], f.UV[k]
		b.buf.Vertices = append(b.buf.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		b.buf.Normals = append(b.buf.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		b.buf.UVs = append(b.buf.UVs, float32(uv.U), float32(uv.V))
	}
	b.buf.Indices = append(b.buf.Indices, base, base+1, base+2)
	b.faces++
}

// Flush hands the current buffer to the sink if it holds anything.
func (b *Batcher) Flush() {
	if b.buf.IsEmpty() {
		return
	}
	Logger().Debug("extrude: flush buffer",
		slog.Int("buffer", b.flushed),
		slog.Int("vertices", b.buf.VertexCount()),
	)
	b.sink.AppendSubGeometry(b.buf)
	b.flushed++
	b.buf = &mesh.Buffer{}
}

// Buffers reports how many buffers have been flushed.
func (b *Batcher) Buffers() int { return b.flushed }

// Faces reports how many faces have been added.
func (b *Batcher) Faces() int { return b.faces }
