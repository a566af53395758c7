package extrude

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Side names accepted in Options.IgnoreSides.
const (
	SideTop    = "top"
	SideBottom = "bottom"
	SideLeft   = "left"
	SideRight  = "right"
	SideFront  = "front"
	SideBack   = "back"
)

// SideNames lists every side name in emission order.
var SideNames = []string{SideTop, SideBottom, SideRight, SideLeft, SideFront, SideBack}

// Sides tells which thickness faces are rendered.
type Sides struct {
	Top, Bottom, Left, Right, Front, Back bool
}

// AllSides has every face enabled.
var AllSides = Sides{Top: true, Bottom: true, Left: true, Right: true, Front: true, Back: true}

// splitSides tokenizes an ignore list. Any run of non-letters separates
// names, so "top,bottom", "top, bottom" and "top bottom" are equivalent.
func splitSides(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	return lo.Map(fields, func(f string, _ int) string { return strings.ToLower(f) })
}

// UnknownSides returns the tokens of an ignore list that are not side names.
func UnknownSides(ignore string) []string {
	return lo.Uniq(lo.Filter(splitSides(ignore), func(tok string, _ int) bool {
		return !lo.Contains(SideNames, tok)
	}))
}

// ParseSides derives the rendered faces from an ignore list. A closed path
// has no visible wall ends or long walls at the wrap seam, so left, right,
// front and back are always off for it.
func ParseSides(ignore string, closePath bool) Sides {
	tokens := splitSides(ignore)
	off := func(name string) bool { return lo.Contains(tokens, name) }

	s := Sides{
		Top:    !off(SideTop),
		Bottom: !off(SideBottom),
		Left:   !off(SideLeft),
		Right:  !off(SideRight),
		Front:  !off(SideFront),
		Back:   !off(SideBack),
	}
	if closePath {
		s.Left, s.Right = false, false
		s.Front, s.Back = false, false
	}
	return s
}

// closedIgnoreSides appends left and right to an ignore list when missing.
func closedIgnoreSides(ignore string) string {
	tokens := splitSides(ignore)
	for _, name := range []string{SideLeft, SideRight} {
		if !lo.Contains(tokens, name) {
			if strings.TrimSpace(ignore) != "" {
				ignore += ","
			}
			ignore += name
			tokens = append(tokens, name)
		}
	}
	return ignore
}
