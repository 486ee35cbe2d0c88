// Package ensemble traces many seeds through one field concurrently.
package ensemble

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/dynamo"
	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/streamline"
)

// TraceMany traces every seed with at most workers concurrent traces. The
// result is index-aligned with seeds. Seeds with a non-finite coordinate are
// skipped and leave a nil trajectory. Cancellation is observed between seeds.
func TraceMany(ctx context.Context, f *field.VectorField, seeds []vec.Vec2, opts streamline.Options, workers int) ([]streamline.Trajectory, error) {
	tracer, err := streamline.NewTracer(f, opts)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]streamline.Trajectory, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, seed := range seeds {
		if !finite(seed) {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = tracer.Trace(seed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TraceTimeout bounds a single trace by d. A non-finite seed is rejected
// with dynamo.ErrInvalidState. The trace itself cannot be interrupted, so on
// timeout its goroutine runs to completion and the result is dropped.
func TraceTimeout(ctx context.Context, f *field.VectorField, seed vec.Vec2, opts streamline.Options, d time.Duration) (streamline.Trajectory, error) {
	tracer, err := streamline.NewTracer(f, opts)
	if err != nil {
		return nil, err
	}
	if !finite(seed) {
		return nil, fmt.Errorf("ensemble: seed (%g, %g): %w", seed.X, seed.Y, dynamo.ErrInvalidState)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan streamline.Trajectory, 1)
	go func() {
		done <- tracer.Trace(seed)
	}()

	select {
	case traj := <-done:
		return traj, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Skipped counts the nil entries of a TraceMany result.
func Skipped(trajs []streamline.Trajectory) int {
	n := 0
	for _, t := range trajs {
		if t == nil {
			n++
		}
	}
	return n
}

func finite(p vec.Vec2) bool {
	return dynamo.State{p.X, p.Y}.IsValid()
}
