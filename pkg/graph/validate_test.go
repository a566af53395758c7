package graph

import (
	"math"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildValidYard creates a valid graph: two walls, one of them placed,
// grouped under a single assembly root.
func buildValidYard() *DesignGraph {
	g := New()

	northID := NewNodeID("defwall/north")
	eastID := NewNodeID("defwall/east")
	placeID := NewNodeID("place/east")
	groupID := NewNodeID("assembly/yard")

	g.AddNode(&Node{
		ID: northID, Kind: NodePrimitive, Name: "north",
		Data: wall(Vec3{0, 0, 0}, Vec3{10, 0, 0}),
	})
	g.AddNode(&Node{
		ID: eastID, Kind: NodePrimitive, Name: "east",
		Data: wall(Vec3{0, 0, 0}, Vec3{0, 0, 10}),
	})
	g.AddNode(&Node{
		ID: placeID, Kind: NodeTransform,
		Children: []NodeID{eastID},
		Data:     TransformData{Translation: &Vec3{10, 0, 0}},
	})
	g.AddNode(&Node{
		ID:       groupID,
		Kind:     NodeGroup,
		Name:     "yard",
		Children: []NodeID{northID, placeID},
		Data:     GroupData{Description: "two walls"},
	})
	g.AddRoot(groupID)

	return g
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning-severity
// finding whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// errorCount returns the number of error-severity findings.
func errorCount(errs []ValidationError) int {
	n := 0
	for _, e := range errs {
		if e.Severity == SeverityError {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Structural checks
// ---------------------------------------------------------------------------

func TestValidate_ValidGraph(t *testing.T) {
	g := buildValidYard()
	for _, e := range Validate(g) {
		t.Errorf("unexpected validation error: %s", e)
	}
	result := ValidateAll(g)
	if len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Errorf("ValidateAll = %+v, want clean", result)
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	for _, e := range Validate(New()) {
		t.Errorf("unexpected validation error on empty graph: %s", e)
	}
}

func TestValidate_CycleDetection(t *testing.T) {
	g := New()

	aID := NewNodeID("a")
	bID := NewNodeID("b")
	cID := NewNodeID("c")

	// a -> b -> c -> a
	g.AddNode(&Node{ID: aID, Kind: NodeGroup, Name: "a", Children: []NodeID{bID}, Data: GroupData{}})
	g.AddNode(&Node{ID: bID, Kind: NodeGroup, Name: "b", Children: []NodeID{cID}, Data: GroupData{}})
	g.AddNode(&Node{ID: cID, Kind: NodeGroup, Name: "c", Children: []NodeID{aID}, Data: GroupData{}})
	g.AddRoot(aID)

	errs := Validate(g)
	if !hasError(errs, "cycle") {
		t.Error("expected cycle detection error, got none")
		for _, e := range errs {
			t.Logf("  %s", e)
		}
	}
}

func TestValidate_DanglingReference(t *testing.T) {
	g := New()

	parentID := NewNodeID("parent")
	g.AddNode(&Node{
		ID: parentID, Kind: NodeGroup, Name: "parent",
		Children: []NodeID{NewNodeID("missing-child")},
		Data:     GroupData{},
	})
	g.AddRoot(parentID)

	if errs := Validate(g); !hasError(errs, "does not exist") {
		t.Error("expected dangling reference error, got none")
	}
}

func TestValidate_DuplicateName(t *testing.T) {
	g := buildValidYard()
	dup := NewNodeID("defwall/north-2")
	g.Nodes[dup] = &Node{ID: dup, Kind: NodePrimitive, Name: "north", Data: wall(Vec3{}, Vec3{1, 0, 0})}
	g.Nodes[g.Roots[0]].Children = append(g.Nodes[g.Roots[0]].Children, dup)

	if errs := Validate(g); !hasError(errs, "duplicate name") {
		t.Error("expected duplicate name error, got none")
	}
}

func TestValidate_OrphanNode(t *testing.T) {
	g := buildValidYard()
	orphanID := NewNodeID("defwall/orphan")
	g.AddNode(&Node{ID: orphanID, Kind: NodePrimitive, Name: "orphan", Data: wall(Vec3{}, Vec3{1, 0, 0})})

	errs := Validate(g)
	if !hasWarning(errs, "orphan") {
		t.Error("expected orphan warning, got none")
	}
	if errorCount(errs) != 0 {
		t.Errorf("expected 0 errors for orphan-only graph, got %d", errorCount(errs))
		for _, e := range errs {
			t.Logf("  %s", e)
		}
	}
}

func TestValidate_NoRootsHasNoOrphans(t *testing.T) {
	g := New()
	g.AddNode(&Node{ID: NewNodeID("defwall/a"), Kind: NodePrimitive, Name: "a", Data: wall(Vec3{}, Vec3{1, 0, 0})})
	g.AddNode(&Node{ID: NewNodeID("defwall/b"), Kind: NodePrimitive, Name: "b", Data: wall(Vec3{}, Vec3{0, 0, 1})})

	if errs := Validate(g); len(errs) != 0 {
		t.Errorf("expected no findings for a root-less wall list, got %v", errs)
	}
}

func TestValidate_NameIndexPointsToMissingNode(t *testing.T) {
	g := buildValidYard()
	g.NameIndex["ghost"] = NewNodeID("defwall/ghost")

	if errs := Validate(g); !hasError(errs, "non-existent node") {
		t.Error("expected stale name index error, got none")
	}
}

func TestValidate_RootReferencesNonExistentNode(t *testing.T) {
	g := New()
	g.AddRoot(NewNodeID("root/missing"))

	if errs := Validate(g); !hasError(errs, "root reference") {
		t.Error("expected missing root error, got none")
	}
}

func TestValidate_TransformArity(t *testing.T) {
	g := New()
	placeID := NewNodeID("place/empty")
	g.AddNode(&Node{ID: placeID, Kind: NodeTransform, Data: TransformData{}})
	g.AddRoot(placeID)

	if errs := Validate(g); !hasError(errs, "exactly 1") {
		t.Error("expected transform arity error, got none")
	}
}

func TestValidate_WallWithChildren(t *testing.T) {
	g := buildValidYard()
	north := g.Lookup("north")
	north.Children = []NodeID{g.Lookup("east").ID}

	if errs := Validate(g); !hasError(errs, "cannot have children") {
		t.Error("expected wall children error, got none")
	}
}

// ---------------------------------------------------------------------------
// Wall checks
// ---------------------------------------------------------------------------

func TestValidateAll_WallFindings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *WallData)
		errMsg  string
		warnMsg string
	}{
		{
			name:   "single point",
			mutate: func(w *WallData) { w.Path = w.Path[:1] },
			errMsg: "at least 2 path points",
		},
		{
			name:   "non-finite point",
			mutate: func(w *WallData) { w.Path[1].X = math.Inf(1) },
			errMsg: "not finite",
		},
		{
			name:   "bad axis",
			mutate: func(w *WallData) { w.Options.Axis = 9 },
			errMsg: "invalid axis",
		},
		{
			name:    "zero offset",
			mutate:  func(w *WallData) { w.Options.Offset = 0 },
			warnMsg: "zero offset",
		},
		{
			name:    "low subdivision",
			mutate:  func(w *WallData) { w.Options.Subdivision = 1 },
			warnMsg: "subdivision 1 raised",
		},
		{
			name:    "negative thickness",
			mutate:  func(w *WallData) { w.Options.Thickness = -1 },
			warnMsg: "negative thickness",
		},
		{
			name: "unknown side",
			mutate: func(w *WallData) {
				w.Options.Thickness = 1
				w.Options.IgnoreSides = "top,lid"
			},
			warnMsg: "unknown sides: lid",
		},
		{
			name:    "sides without thickness",
			mutate:  func(w *WallData) { w.Options.IgnoreSides = "top" },
			warnMsg: "no effect",
		},
		{
			name:    "closed two points",
			mutate:  func(w *WallData) { w.Options.ClosePath = true },
			warnMsg: "closes a 2-point path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildValidYard()
			n := g.Lookup("north")
			w := n.Data.(WallData)
			w.Path = append([]Vec3(nil), w.Path...)
			tt.mutate(&w)
			n.Data = w

			result := ValidateAll(g)
			if tt.errMsg != "" && !hasError(result.Errors, tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, result.Errors)
			}
			if tt.errMsg == "" && len(result.Errors) != 0 {
				t.Errorf("unexpected errors: %v", result.Errors)
			}
			if tt.warnMsg != "" {
				found := false
				for _, w := range result.Warnings {
					if strings.Contains(w.Message, tt.warnMsg) {
						found = true
					}
				}
				if !found {
					t.Errorf("expected warning containing %q, got %v", tt.warnMsg, result.Warnings)
				}
			}
		})
	}
}

func TestValidationError_String(t *testing.T) {
	e1 := ValidationError{Message: "test graph error", Severity: SeverityError}
	if !strings.Contains(e1.Error(), "error") || !strings.Contains(e1.Error(), "test graph error") {
		t.Errorf("unexpected graph-level string %q", e1.Error())
	}

	e2 := ValidationError{NodeID: NewNodeID("test"), Message: "test node warning", Severity: SeverityWarning}
	if !strings.Contains(e2.Error(), "warning") || !strings.Contains(e2.Error(), "node") {
		t.Errorf("unexpected node-level string %q", e2.Error())
	}
}

func TestValidate_NoRootsPlacementIsReachable(t *testing.T) {
	g := New()
	aID := NewNodeID("defwall/a")
	g.AddNode(&Node{ID: aID, Kind: NodePrimitive, Name: "a", Data: wall(Vec3{}, Vec3{1, 0, 0})})
	g.AddNode(&Node{
		ID: NewNodeID("place/a/_anon_1"), Kind: NodeTransform, Children: []NodeID{aID},
		Data: TransformData{Translation: &Vec3{100, 0, 0}},
	})

	if errs := Validate(g); len(errs) != 0 {
		t.Errorf("expected no findings for a top-level placement, got %v", errs)
	}
}
