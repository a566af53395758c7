package extrude

import "math"

// MinSubdivision is the lower clamp for both subdivision counts.
const MinSubdivision = 3

// Options are the shape parameters of a wall.
type Options struct {
	Axis                 Axis    `json:"axis"`
	Offset               float64 `json:"offset"`      // total elevation, signed
	Subdivision          int     `json:"subdivision"` // elevation steps
	CoverAll             bool    `json:"coverAll"`    // one texture across all segments
	Thickness            float64 `json:"thickness"`   // 0 = single surface
	ThicknessSubdivision int     `json:"thicknessSubdivision"`
	CenterMesh           bool    `json:"centerMesh"`
	ClosePath            bool    `json:"closePath"`
	IgnoreSides          string  `json:"ignoreSides"` // e.g. "top,bottom"
	Flip                 bool    `json:"flip"`
}

// DefaultOptions returns the defaults: a 10 unit tall single-surface wall
// along Y with 3 subdivisions.
func DefaultOptions() Options {
	return Options{
		Axis:                 AxisY,
		Offset:               10,
		Subdivision:          3,
		ThicknessSubdivision: 3,
	}
}

// normalized applies the silent clamps: subdivisions to MinSubdivision,
// thickness to its absolute value, unknown axes to Y. A closed path also
// ignores its left and right walls.
func (o Options) normalized() Options {
	o.Subdivision = clampSubdivision(o.Subdivision)
	o.ThicknessSubdivision = clampSubdivision(o.ThicknessSubdivision)
	o.Thickness = math.Abs(o.Thickness)
	if !o.Axis.Valid() {
		o.Axis = AxisY
	}
	if o.ClosePath {
		o.IgnoreSides = closedIgnoreSides(o.IgnoreSides)
	}
	return o
}

func clampSubdivision(n int) int {
	if n < MinSubdivision {
		return MinSubdivision
	}
	return n
}
