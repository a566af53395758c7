package engine

import (
	"fmt"

	"github.com/chazu/wallmesh/pkg/extrude"
	"github.com/chazu/wallmesh/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Wall options
// ---------------------------------------------------------------------------

// applyWallOption sets one keyword argument on o. ok is false for keywords
// that are not wall options.
func applyWallOption(o *extrude.Options, key string, v zygo.Sexp) (ok bool, err error) {
	switch key {
	case "axis":
		o.Axis, err = toAxis(v)
	case "offset":
		o.Offset, err = toFloat64(v)
	case "subdivision":
		o.Subdivision, err = toInt(v)
	case "thickness":
		o.Thickness, err = toFloat64(v)
	case "thickness-subdivision":
		o.ThicknessSubdivision, err = toInt(v)
	case "cover-all":
		o.CoverAll, err = toBool(v)
	case "close-path":
		o.ClosePath, err = toBool(v)
	case "ignore-sides":
		o.IgnoreSides, err = toSides(v)
	case "flip":
		o.Flip, err = toBool(v)
	case "center":
		o.CenterMesh, err = toBool(v)
	default:
		return false, nil
	}
	return true, err
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// evalState is the per-evaluation context shared by the builtins.
type evalState struct {
	g     *graph.DesignGraph
	anons int
}

// anonPath returns a fresh ID path for a node without a user name. The
// counter restarts with every evaluation so IDs stay deterministic.
func (s *evalState) anonPath(prefix string) string {
	s.anons++
	return fmt.Sprintf("%s/_anon_%d", prefix, s.anons)
}

// registerBuiltins installs all wall script builtins into a zygomys
// environment. The builtins operate on the provided DesignGraph, populating
// it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph) {
	st := &evalState{g: g}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: graph.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (defaults :axis :y :offset 3 :thickness 0.2 :units "m")
	// -----------------------------------------------------------------------
	env.AddFunction("defaults", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		opts := g.Defaults.Wall

		for _, key := range pa.order {
			v := pa.kw[key]
			if key == "units" {
				u, err := toString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("defaults :units: %w", err)
				}
				g.Defaults.Units = u
				continue
			}
			ok, err := applyWallOption(&opts, key, v)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("defaults: unknown keyword :%s", key)
			}
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defaults :%s: %w", key, err)
			}
		}

		g.Defaults.Wall = opts
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (wall :path (list (vec3 0 0 0) (vec3 4 0 0)) :thickness 0.2 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		wd := graph.WallData{Options: g.Defaults.Wall}

		v, ok := pa.kw["path"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("wall: no path given")
		}
		path, err := toPath(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall :path: %w", err)
		}
		wd.Path = path

		for _, key := range pa.order {
			if key == "path" {
				continue
			}
			ok, err := applyWallOption(&wd.Options, key, pa.kw[key])
			if !ok {
				return zygo.SexpNull, fmt.Errorf("wall: unknown keyword :%s", key)
			}
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("wall :%s: %w", key, err)
			}
		}

		return &sexpWall{data: wd}, nil
	})

	// -----------------------------------------------------------------------
	// (defwall "name" (wall ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defwall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defwall requires a name and a body expression")
		}

		wallName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defwall: name: %w", err)
		}
		body, ok := args[1].(*sexpWall)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defwall: expected wall expression, got %T", args[1])
		}
		if g.Lookup(wallName) != nil {
			return zygo.SexpNull, fmt.Errorf("defwall: %q is already defined", wallName)
		}

		id := graph.NewNodeID("defwall/" + wallName)
		g.AddNode(&graph.Node{
			ID:   id,
			Kind: graph.NodePrimitive,
			Name: wallName,
			Data: body.data,
		})

		return &sexpNodeRef{id: id, name: wallName}, nil
	})

	// -----------------------------------------------------------------------
	// (part "name")
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		n := g.Lookup(partName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}

		return &sexpNodeRef{id: n.ID, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (place (part "north") :at (vec3 0 0 5) :rotate (vec3 0 90 0))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a part reference as first argument")
		}

		childID, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: part: %w", err)
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place :at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place :rotate: %w", err)
			}
			td.Rotation = &vec
		}

		// The same wall may be placed more than once, so the counter is
		// always part of the path.
		prefix := "place"
		if child := g.Get(childID); child != nil && child.Name != "" {
			prefix = "place/" + child.Name
		}
		id := graph.NewNodeID(st.anonPath(prefix))

		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeTransform,
			Children: []graph.NodeID{childID},
			Data:     td,
		})

		return &sexpNodeRef{id: id}, nil
	})

	// -----------------------------------------------------------------------
	// (assembly "name" (place ...) (part ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
		}

		asmName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}

		var children []graph.NodeID
		for i := 1; i < len(args); i++ {
			ref, ok := args[i].(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("assembly: child %d: expected node reference, got %T (%s)",
					i, args[i], args[i].SexpString(nil))
			}
			children = append(children, ref.id)
		}

		id := graph.NewNodeID("assembly/" + asmName)
		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeGroup,
			Name:     asmName,
			Children: children,
			Data:     graph.GroupData{},
		})
		g.AddRoot(id)

		return &sexpNodeRef{id: id, name: asmName}, nil
	})
}
