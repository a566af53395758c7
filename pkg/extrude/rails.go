package extrude

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Elevate returns steps snapshots of base, each moved a further increase
// along axis. base itself is not included.
func Elevate(base v3.Vec, axis Axis, increase float64, steps int) []v3.Vec {
	out := make([]v3.Vec, 0, steps)
	v := base
	for i := 0; i < steps; i++ {
		v = axis.set(v, axis.get(v)+increase)
		out = append(out, v)
	}
	return out
}

// appendColumn appends base and its elevated snapshots to rail.
func appendColumn(rail []v3.Vec, base v3.Vec, axis Axis, increase float64, steps int) []v3.Vec {
	rail = append(rail, base)
	return append(rail, Elevate(base, axis, increase, steps)...)
}

// solidRail builds one column of steps+1 vertices per path point.
func solidRail(path []v3.Vec, axis Axis, increase float64, steps int) []v3.Vec {
	rail := make([]v3.Vec, 0, len(path)*(steps+1))
	for _, p := range path {
		rail = appendColumn(rail, p, axis, increase, steps)
	}
	return rail
}

// thicknessRails builds the outer and inner walls from the mitered joints.
// Column k of both rails sits at path point k, so index i on one rail is
// always at the same elevation step as index i on the other.
func thicknessRails(path []v3.Vec, joints []Joint, axis Axis, increase float64, steps int) (outer, inner []v3.Vec) {
	n := (len(joints) + 1) * (steps + 1)
	outer = make([]v3.Vec, 0, n)
	inner = make([]v3.Vec, 0, n)

	for i, j := range joints {
		h := axis.get(path[i])
		outer = appendColumn(outer, axis.lift(j.Quad.P2, h), axis, increase, steps)
		inner = appendColumn(inner, axis.lift(j.Quad.P1, h), axis, increase, steps)

		if i == len(joints)-1 {
			h = axis.get(path[i+1])
			outer = appendColumn(outer, axis.lift(j.Quad.P4, h), axis, increase, steps)
			inner = appendColumn(inner, axis.lift(j.Quad.P3, h), axis, increase, steps)
		}
	}
	return outer, inner
}
