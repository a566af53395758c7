// Command wallmesh turns a wall script into triangle meshes.
//
//	wallmesh -in yard.wall -out yard.json
//	wallmesh -in yard.wall -format stl -out yard.stl
//	cat yard.wall | wallmesh
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/chazu/wallmesh/pkg/engine"
	"github.com/chazu/wallmesh/pkg/extrude"
	"golang.org/x/term"
)

// pipeName indicates that stdin/stdout is being used as file names.
const pipeName = "-"

var (
	source      = flag.String("in", pipeName, "Wall script")
	destination = flag.String("out", pipeName, "Destination")
	format      = flag.String("format", "json", "Output format: json or stl")
	debug       = flag.Bool("debug", false, "Log builder diagnostics to stderr")
	timeout     = flag.Duration("timeout", engine.DefaultTimeout, "Limit for evaluating and meshing the script")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *debug {
		extrude.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	src, err := readSource(*source)
	if err != nil {
		log.Fatalf("wallmesh: %v", err)
	}

	app := NewApp(engine.WithTimeout(*timeout))
	switch *format {
	case "json":
		if err := writeJSON(app.Evaluate(src), *destination); err != nil {
			log.Fatalf("wallmesh: %v", err)
		}
	case "stl":
		if *destination == pipeName {
			log.Fatal("wallmesh: -format stl needs a file path for -out")
		}
		if err := app.ExportSTL(src, *destination); err != nil {
			log.Fatalf("wallmesh: %v", err)
		}
	default:
		flag.Usage()
		log.Fatalf("wallmesh: unknown format %q", *format)
	}
}

// readSource reads the script from a file or, for "-", from stdin.
func readSource(name string) (string, error) {
	if name == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return "", errors.New("`-` should be used with a pipe for stdin")
		}
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}

// createOutput opens the JSON destination; tests swap it out.
var createOutput = func(name string) (io.WriteCloser, error) { return os.Create(name) }

// writeJSON writes the result to a file or stdout. Output meant for a
// terminal is indented. A result carrying errors is still written, then
// reported as an error.
func writeJSON(result EvalResult, name string) (err error) {
	var w io.Writer = os.Stdout
	indent := false
	if name == pipeName {
		indent = term.IsTerminal(int(os.Stdout.Fd()))
	} else {
		f, ferr := createOutput(name)
		if ferr != nil {
			return fmt.Errorf("create output: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = f
	}

	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d error(s), first: %s", len(result.Errors), result.Errors[0].Message)
	}
	return nil
}
