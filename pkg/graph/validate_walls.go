package graph

import (
	"fmt"
	"strings"

	"github.com/chazu/wallmesh/pkg/extrude"
)

// validateWalls checks every wall's path and options. Conditions the mesh
// builder cannot handle are errors; values it silently clamps or ignores
// are warnings. Walls are checked in name order so findings are stable.
func validateWalls(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Walls() {
		w, ok := node.Data.(WallData)
		if !ok {
			continue
		}
		add := func(sev ValidationSeverity, format string, args ...any) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf(format, args...),
				Severity: sev,
			})
		}
		o := w.Options

		if len(w.Path) < 2 {
			add(SeverityError, "wall %q needs at least 2 path points, has %d", node.Name, len(w.Path))
		}
		for i, p := range w.Path {
			if !p.IsFinite() {
				add(SeverityError, "wall %q point %d %s is not finite", node.Name, i, p)
			}
		}
		if !o.Axis.Valid() {
			add(SeverityError, "wall %q has invalid axis %s", node.Name, o.Axis)
		}

		if o.Offset == 0 {
			add(SeverityWarning, "wall %q has zero offset and will be flat", node.Name)
		}
		if o.Subdivision < extrude.MinSubdivision {
			add(SeverityWarning, "wall %q subdivision %d raised to %d", node.Name, o.Subdivision, extrude.MinSubdivision)
		}
		if o.Thickness < 0 {
			add(SeverityWarning, "wall %q negative thickness %g used as %g", node.Name, o.Thickness, -o.Thickness)
		}
		if o.Thickness != 0 && o.ThicknessSubdivision < extrude.MinSubdivision {
			add(SeverityWarning, "wall %q thickness subdivision %d raised to %d",
				node.Name, o.ThicknessSubdivision, extrude.MinSubdivision)
		}
		if unknown := extrude.UnknownSides(o.IgnoreSides); len(unknown) > 0 {
			add(SeverityWarning, "wall %q ignores unknown sides: %s", node.Name, strings.Join(unknown, ", "))
		}
		if o.Thickness == 0 && strings.TrimSpace(o.IgnoreSides) != "" {
			add(SeverityWarning, "wall %q ignore-sides has no effect without thickness", node.Name)
		}
		if o.ClosePath && len(w.Path) == 2 {
			add(SeverityWarning, "wall %q closes a 2-point path onto itself", node.Name)
		}
	}

	return errs
}
