package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds one request: evaluation, validation and meshing
// together.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a request outlives the engine's timeout.
	ErrTimeout = errors.New("engine: timed out")
	// ErrSuperseded is returned when a newer request started while this one
	// was running.
	ErrSuperseded = errors.New("engine: superseded by a newer request")
)

// begin starts a new request and returns its generation.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

// latest reports whether gen is still the newest request.
func (e *Engine) latest(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}

// outcome carries fn's results back to guard.
type outcome[T any] struct {
	val T
	err error
}

// guard runs fn on its own goroutine under the engine's timeout. A panic in
// fn comes back as an error. On timeout fn's context is cancelled and guard
// returns at once; whatever fn produces afterwards is dropped.
func guard[T any](ctx context.Context, e *Engine, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	gen := e.begin()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ch := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome[T]{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- outcome[T]{val: v, err: err}
	}()

	select {
	case out := <-ch:
		if errors.Is(out.err, context.DeadlineExceeded) {
			return zero, e.timedOut()
		}
		if !e.latest(gen) {
			return zero, ErrSuperseded
		}
		return out.val, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, e.timedOut()
		}
		return zero, ctx.Err()
	}
}

func (e *Engine) timedOut() error {
	return fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
}
