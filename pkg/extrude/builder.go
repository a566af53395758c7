// Package extrude turns a polyline into a wall mesh by sweeping it along a
// cardinal axis. A wall is either a single surface or, with a thickness, a
// closed solid with mitered corners, end caps and top and bottom faces.
package extrude

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/chazu/wallmesh/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrTooFewPoints is returned when a path has fewer than two points.
var ErrTooFewPoints = errors.New("extrude: path needs at least 2 points")

// Stats summarizes the last build.
type Stats struct {
	Segments  int `json:"segments"`
	Faces     int `json:"faces"`
	Buffers   int `json:"buffers"`
	Nudges    int `json:"nudges"`
	Fallbacks int `json:"fallbacks"` // corners left unmitered
}

// Builder owns the inputs of one wall and keeps its sink filled with the
// matching mesh. Changing an input marks the builder dirty; the mesh is
// rebuilt the next time it is read.
type Builder struct {
	sink    mesh.Sink
	path    []v3.Vec
	opts    Options
	dirty   bool
	extents Extents
	stats   Stats
}

// cancelCheckFaces is how many faces are emitted between context checks.
const cancelCheckFaces = 4096

// New validates the path, builds the wall into sink and returns the
// builder. A nil sink gets a fresh *mesh.Geometry. The path is copied.
func New(sink mesh.Sink, path []v3.Vec, opts Options) (*Builder, error) {
	return NewContext(context.Background(), sink, path, opts)
}

// NewContext is New with a context that can abandon the initial build.
func NewContext(ctx context.Context, sink mesh.Sink, path []v3.Vec, opts Options) (*Builder, error) {
	if sink == nil {
		sink = mesh.NewGeometry("")
	}
	b := &Builder{sink: sink, path: slices.Clone(path), opts: opts}
	if err := b.BuildContext(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Build discards the sink's contents and regenerates the whole wall. On
// error the sink is left untouched.
func (b *Builder) Build() error {
	return b.BuildContext(context.Background())
}

// BuildContext is Build with cancellation. Cancelling before emission
// starts leaves the sink untouched; cancelling during emission leaves it
// empty and the builder dirty.
func (b *Builder) BuildContext(ctx context.Context) error {
	if len(b.path) < 2 {
		return fmt.Errorf("%w, got %d", ErrTooFewPoints, len(b.path))
	}
	opts := b.opts.normalized()

	path := slices.Clone(b.path)
	if opts.ClosePath {
		path = append(path, path[0])
	}
	segments := len(path) - 1

	e := &emitter{opts: opts, segments: segments}
	stats := Stats{Segments: segments}
	increase := opts.Offset / float64(opts.Subdivision)

	if opts.Thickness > 0 {
		anchors, nudges := computeAnchors(path, opts.Axis, opts.Thickness)
		joints := JoinAnchors(anchors)
		for _, j := range joints {
			if j.Fallback {
				stats.Fallbacks++
			}
		}
		stats.Nudges = nudges
		e.outer, e.inner = thicknessRails(path, joints, opts.Axis, increase, opts.Subdivision)
		e.sides = ParseSides(opts.IgnoreSides, opts.ClosePath)
	} else {
		e.outer = solidRail(path, opts.Axis, increase, opts.Subdivision)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	b.sink.Reset()
	target := b.sink
	var staging *mesh.Geometry
	if opts.CenterMesh {
		staging = mesh.NewGeometry("")
		target = staging
	}

	batch := NewBatcher(target)
	for f := range e.Faces() {
		batch.AddFace(f)
		if batch.Faces()%cancelCheckFaces == 0 && ctx.Err() != nil {
			b.sink.Reset()
			b.dirty = true
			return ctx.Err()
		}
	}
	batch.Flush()

	if staging != nil {
		if box, ok := staging.Bounds(); ok {
			staging.Translate(box.Center().Neg())
		}
		for _, buf := range staging.SubGeometries {
			b.sink.AppendSubGeometry(buf)
		}
	}

	stats.Faces = batch.Faces()
	stats.Buffers = batch.Buffers()
	b.stats = stats
	b.extents = ResolveBaseOffset(path, opts.Axis)
	b.dirty = false

	Logger().Debug("extrude: build",
		slog.String("axis", opts.Axis.String()),
		slog.Int("segments", stats.Segments),
		slog.Int("faces", stats.Faces),
		slog.Int("buffers", stats.Buffers),
		slog.Bool("solid", opts.Thickness > 0),
	)
	return nil
}

// Geometry rebuilds if any input changed and returns the sink.
func (b *Builder) Geometry() (mesh.Sink, error) {
	if b.dirty {
		if err := b.Build(); err != nil {
			return nil, err
		}
	}
	return b.sink, nil
}

// Dirty reports whether an input changed since the last build.
func (b *Builder) Dirty() bool { return b.dirty }

// Stats returns the statistics of the last build.
func (b *Builder) Stats() Stats { return b.stats }

// Extents returns the path extents of the last build.
func (b *Builder) Extents() Extents { return b.extents }

// Path returns a copy of the path.
func (b *Builder) Path() []v3.Vec { return slices.Clone(b.path) }

// Options returns the effective options, after clamping.
func (b *Builder) Options() Options { return b.opts.normalized() }

// SetPath replaces the path. The slice is copied.
func (b *Builder) SetPath(path []v3.Vec) {
	b.path = slices.Clone(path)
	b.dirty = true
}

// SetOptions replaces all options at once.
func (b *Builder) SetOptions(opts Options) {
	b.update(func(o *Options) { *o = opts })
}

// Single-option setters. Each marks the builder dirty only if the effective
// options change.
func (b *Builder) SetAxis(a Axis)          { b.update(func(o *Options) { o.Axis = a }) }
func (b *Builder) SetOffset(v float64)     { b.update(func(o *Options) { o.Offset = v }) }
func (b *Builder) SetSubdivision(n int)    { b.update(func(o *Options) { o.Subdivision = n }) }
func (b *Builder) SetCoverAll(v bool)      { b.update(func(o *Options) { o.CoverAll = v }) }
func (b *Builder) SetThickness(v float64)  { b.update(func(o *Options) { o.Thickness = v }) }
func (b *Builder) SetCenterMesh(v bool)    { b.update(func(o *Options) { o.CenterMesh = v }) }
func (b *Builder) SetClosePath(v bool)     { b.update(func(o *Options) { o.ClosePath = v }) }
func (b *Builder) SetIgnoreSides(s string) { b.update(func(o *Options) { o.IgnoreSides = s }) }
func (b *Builder) SetFlip(v bool)          { b.update(func(o *Options) { o.Flip = v }) }
func (b *Builder) SetThicknessSubdivision(n int) {
	b.update(func(o *Options) { o.ThicknessSubdivision = n })
}

// update applies fn and marks the builder dirty if the effective options
// changed.
func (b *Builder) update(fn func(*Options)) {
	before := b.opts.normalized()
	fn(&b.opts)
	if b.opts.normalized() != before {
		b.dirty = true
	}
}
