// Package engine evaluates wall scripts. A script runs in a sandboxed
// zygomys environment and declares walls, placements and assemblies into a
// DesignGraph; Build goes on to validate that graph and mesh every wall.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/wallmesh/pkg/graph"
	"github.com/chazu/wallmesh/pkg/tessellate"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a problem that stops a script from producing meshes: a
// parse or runtime error in the script, or a blocking validation finding.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is an advisory finding about a wall that still gets built.
type EvalWarning struct {
	Message string
	NodeID  graph.NodeID
}

// Result is the outcome of Build. Parts is empty whenever Errors is not.
type Result struct {
	Graph    *graph.DesignGraph
	Parts    []*tessellate.Part
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine runs wall scripts. It is safe for concurrent use; every request
// gets a fresh sandbox, so the same script always yields the same graph.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout replaces DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Timeout returns the limit applied to each request.
func (e *Engine) Timeout() time.Duration { return e.timeout }

// Evaluate runs source and returns the graph it declares.
//
//   - On success: graph, nil, nil.
//   - On a parse or runtime error: nil, eval errors, nil.
//   - On timeout, panic or a superseded request: nil, nil, error.
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	type evaluated struct {
		g    *graph.DesignGraph
		errs []EvalError
	}
	out, err := guard(context.Background(), e, func(context.Context) (evaluated, error) {
		g, errs := evaluate(source)
		return evaluated{g, errs}, nil
	})
	return out.g, out.errs, err
}

// Build runs source, validates the graph and meshes every wall it reaches,
// all under one timeout. Script and validation problems are reported in
// the Result; the error is reserved for timeouts, panics and cancellation.
func (e *Engine) Build(ctx context.Context, source string) (*Result, error) {
	return guard(ctx, e, func(ctx context.Context) (*Result, error) {
		return build(ctx, source)
	})
}

func build(ctx context.Context, source string) (*Result, error) {
	res := &Result{}

	g, evalErrs := evaluate(source)
	if len(evalErrs) > 0 {
		res.Errors = evalErrs
		return res, nil
	}
	res.Graph = g

	vr := graph.ValidateAll(g)
	for _, w := range vr.Warnings {
		res.Warnings = append(res.Warnings, EvalWarning{Message: w.Message, NodeID: w.NodeID})
	}
	if len(vr.Errors) > 0 {
		for _, ve := range vr.Errors {
			res.Errors = append(res.Errors, EvalError{Message: ve.Message})
		}
		return res, nil
	}

	parts, err := tessellate.TessellateContext(ctx, g)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		res.Errors = append(res.Errors, EvalError{Message: "tessellation failed: " + err.Error()})
		return res, nil
	}
	res.Parts = parts
	return res, nil
}

// evaluate runs source in a fresh sandbox. Either the graph or the errors
// are non-nil.
func evaluate(source string) (*graph.DesignGraph, []EvalError) {
	if strings.TrimSpace(source) == "" {
		return graph.New(), nil
	}

	sc := prepare(source)

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	g := graph.New()
	registerBuiltins(env, g)

	if err := env.LoadString(sc.text); err != nil {
		return nil, sc.evalErrors(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, sc.evalErrors(err)
	}
	return g, nil
}

// evalErrors converts a zygomys error, placing it in the source when
// zygomys did not.
func (s *script) evalErrors(err error) []EvalError {
	errs := parseZygomysError(err)
	for i := range errs {
		s.locate(&errs[i])
	}
	return errs
}

// zygomys reports positions as "Error on line N: ..." or "line N: ...".
var (
	linePattern      = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)
	linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)
)

// parseZygomysError converts a zygomys error into EvalErrors, keeping the
// line number when the message has one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
