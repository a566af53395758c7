package extrude

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Axis is one of the three cardinal extrusion axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Valid reports whether a is one of the three cardinal axes.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// ParseAxis converts "x", "y" or "z" (any case) to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", s)
}

// plane returns the two in-plane axes used for mitering. The first is also
// the cross axis of ResolveBaseOffset.
func (a Axis) plane() (first, second Axis) {
	switch a {
	case AxisX:
		return AxisZ, AxisY
	case AxisZ:
		return AxisY, AxisX
	default:
		return AxisX, AxisZ
	}
}

// get returns the component of v along a.
func (a Axis) get(v v3.Vec) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisZ:
		return v.Z
	default:
		return v.Y
	}
}

// set returns v with the component along a replaced by f.
func (a Axis) set(v v3.Vec, f float64) v3.Vec {
	switch a {
	case AxisX:
		v.X = f
	case AxisZ:
		v.Z = f
	default:
		v.Y = f
	}
	return v
}

// project drops v onto the miter plane of extrusion axis a.
func (a Axis) project(v v3.Vec) v2.Vec {
	first, second := a.plane()
	return v2.Vec{X: first.get(v), Y: second.get(v)}
}

// lift places the plane point p back into 3D with elevation h along a.
func (a Axis) lift(p v2.Vec, h float64) v3.Vec {
	first, second := a.plane()
	var v v3.Vec
	v = first.set(v, p.X)
	v = second.set(v, p.Y)
	return a.set(v, h)
}
