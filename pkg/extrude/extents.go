package extrude

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Extents describes the path's footprint relative to the extrusion axis.
// It is informational; vertex placement is driven by Offset/Subdivision.
type Extents struct {
	Bounds        sdf.Box3
	ElevationSpan float64 // |max-min| along the extrusion axis
	CrossSpan     float64 // extent along the cross axis
	CrossOffset   float64 // shift that keeps cross coordinates non-negative
}

// ResolveBaseOffset scans the path bounds and computes the spans and the
// cross-axis offset for axis. The cross axis is Z for X, X for Y and Y for Z.
func ResolveBaseOffset(path []v3.Vec, axis Axis) Extents {
	if len(path) == 0 {
		return Extents{}
	}
	box := sdf.Box3{Min: path[0], Max: path[0]}
	for _, p := range path[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}

	cross, _ := axis.plane()
	low, high := cross.get(box.Min), cross.get(box.Max)

	e := Extents{
		Bounds:        box,
		ElevationSpan: math.Abs(axis.get(box.Max) - axis.get(box.Min)),
	}
	switch {
	case low > 0 && high > 0:
		e.CrossSpan = high - low
		e.CrossOffset = -low
	case low < 0 && high < 0:
		e.CrossSpan = math.Abs(low - high)
		e.CrossOffset = -low
	default:
		e.CrossSpan = math.Abs(high) + math.Abs(low)
		e.CrossOffset = math.Abs(low)
		if high < 0 {
			e.CrossOffset -= high
		}
	}
	return e
}
