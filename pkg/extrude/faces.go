package extrude

import (
	"iter"

	"github.com/chazu/wallmesh/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Face is one emitted triangle with its texture coordinates.
type Face struct {
	V  [3]v3.Vec
	UV [3]geom.UV
}

func face(a, b, c v3.Vec, ua, ub, uc geom.UV) Face {
	return Face{V: [3]v3.Vec{a, b, c}, UV: [3]geom.UV{ua, ub, uc}}
}

// inverted mirrors the face's texture horizontally.
func (f Face) inverted() Face {
	for i := range f.UV {
		f.UV[i] = f.UV[i].InvertU()
	}
	return f
}

// cell is one grid quad: column i, row j. a and d sit at row j, b and c one
// row up; a and b on column i, c and d on column i+1.
type cell struct {
	i, j       int
	a, b, c, d int
	ua, ub     geom.UV
	uc, ud     geom.UV
}

// emitter walks the rail grid and yields the triangles of every enabled face.
type emitter struct {
	opts     Options
	sides    Sides
	outer    []v3.Vec // the only rail of a solid wall
	inner    []v3.Vec // nil for a solid wall
	segments int
}

// Faces yields triangles in emission order: per cell the right, left, back,
// bottom, top and front faces, cells column by column.
func (e *emitter) Faces() iter.Seq[Face] {
	return func(yield func(Face) bool) {
		sub := e.opts.Subdivision
		rows := sub + 1
		step := 1 / float64(e.segments)

		for i := 0; i < e.segments; i++ {
			uLeft, uRight := 0.0, 1.0
			if e.opts.CoverAll {
				uLeft = step * float64(i)
				uRight = uLeft + step
			}
			for j := 0; j < sub; j++ {
				low := 1 - float64(j)/float64(sub)
				high := 1 - float64(j+1)/float64(sub)
				vi := i*rows + j
				c := cell{
					i: i, j: j,
					a: vi, b: vi + 1, c: vi + sub + 2, d: vi + sub + 1,
					ua: geom.UV{U: uLeft, V: low},
					ub: geom.UV{U: uLeft, V: high},
					uc: geom.UV{U: uRight, V: high},
					ud: geom.UV{U: uRight, V: low},
				}
				var ok bool
				if e.inner == nil {
					ok = e.solidCell(c, yield)
				} else {
					ok = e.thickCell(c, yield)
				}
				if !ok {
					return
				}
			}
		}
	}
}

func (e *emitter) solidCell(c cell, yield func(Face) bool) bool {
	va, vb, vc, vd := e.outer[c.a], e.outer[c.b], e.outer[c.c], e.outer[c.d]
	if e.opts.Flip {
		return yield(face(vb, va, vc, c.ub, c.ua, c.uc)) &&
			yield(face(vc, va, vd, c.uc, c.ua, c.ud))
	}
	return yield(face(va, vb, vc, c.ua, c.ub, c.uc)) &&
		yield(face(va, vc, vd, c.ua, c.uc, c.ud))
}

func (e *emitter) thickCell(c cell, yield func(Face) bool) bool {
	oa, ob, oc, od := e.outer[c.a], e.outer[c.b], e.outer[c.c], e.outer[c.d]
	ia, ib, ic, id := e.inner[c.a], e.inner[c.b], e.inner[c.c], e.inner[c.d]
	flip := e.opts.Flip
	s := e.sides

	if s.Right {
		var f1, f2 Face
		if flip {
			f1 = face(oa, ob, oc, c.ua, c.ub, c.uc)
			f2 = face(oa, oc, od, c.ua, c.uc, c.ud)
		} else {
			f1 = face(ob, oa, oc, c.ub, c.ua, c.uc)
			f2 = face(oc, oa, od, c.uc, c.ua, c.ud)
		}
		if !yield(f1) || !yield(f2) {
			return false
		}
	}

	if s.Left {
		var f1, f2 Face
		if flip {
			f1 = face(id, ib, ia, c.ud, c.ub, c.ua)
			f2 = face(id, ic, ib, c.ud, c.uc, c.ub)
		} else {
			f1 = face(ib, id, ia, c.ub, c.ud, c.ua)
			f2 = face(ic, id, ib, c.uc, c.ud, c.ub)
		}
		// The inner wall is seen from the other side.
		if !yield(f1.inverted()) || !yield(f2.inverted()) {
			return false
		}
	}

	if s.Back && c.i == 0 {
		var f1, f2 Face
		if flip {
			f1 = face(ia, ib, ob, c.ua, c.ub, c.uc)
			f2 = face(ia, ob, oa, c.ua, c.uc, c.ud)
		} else {
			f1 = face(ib, ia, ob, c.ub, c.ua, c.uc)
			f2 = face(ob, ia, oa, c.uc, c.ua, c.ud)
		}
		if !yield(f1) || !yield(f2) {
			return false
		}
	}

	if s.Bottom && c.j == 0 {
		if !e.capFaces([]v3.Vec{id, ia}, []v3.Vec{od, oa}, c.ud.U, c.ub.U, yield) {
			return false
		}
	}

	if s.Top && c.j == e.opts.Subdivision-1 {
		if !e.capFaces([]v3.Vec{ib, ic}, []v3.Vec{ob, oc}, c.ua.U, c.uc.U, yield) {
			return false
		}
	}

	if s.Front && c.i == e.segments-1 {
		var f1, f2 Face
		if flip {
			f1 = face(od, oc, ic, c.ua, c.ub, c.uc)
			f2 = face(od, ic, id, c.ua, c.uc, c.ud)
		} else {
			f1 = face(oc, od, ic, c.ub, c.ua, c.uc)
			f2 = face(ic, od, id, c.uc, c.ua, c.ud)
		}
		if !yield(f1) || !yield(f2) {
			return false
		}
	}
	return true
}

// capFaces bridges two parallel point lists with ThicknessSubdivision strips
// per consecutive pair. u1 is the texture U on the from side, u2 on the to
// side.
func (e *emitter) capFaces(from, to []v3.Vec, u1, u2 float64, yield func(Face) bool) bool {
	ts := e.opts.ThicknessSubdivision
	stride := ts + 1

	tmp := make([]v3.Vec, 0, len(from)*stride)
	for k := range from {
		step := to[k].Sub(from[k]).DivScalar(float64(ts))
		for s := 0; s <= ts; s++ {
			tmp = append(tmp, from[k].Add(step.MulScalar(float64(s))))
		}
	}

	for k := 0; k < len(from)-1; k++ {
		base := k * stride
		for s := 0; s < ts; s++ {
			v0 := float64(s) / float64(ts)
			v1 := float64(s+1) / float64(ts)
			ua := geom.UV{U: u1, V: v0}
			ub := geom.UV{U: u1, V: v1}
			uc := geom.UV{U: u2, V: v1}
			ud := geom.UV{U: u2, V: v0}

			va := tmp[base+s]
			vb := tmp[base+s+1]
			vc := tmp[base+s+ts+2]
			vd := tmp[base+s+ts+1]

			var ok bool
			if e.opts.Flip {
				ok = yield(face(vb, va, vc, ub, ua, uc)) && yield(face(vc, va, vd, uc, ua, ud))
			} else {
				ok = yield(face(va, vb, vc, ua, ub, uc)) && yield(face(va, vc, vd, ua, uc, ud))
			}
			if !ok {
				return false
			}
		}
	}
	return true
}
