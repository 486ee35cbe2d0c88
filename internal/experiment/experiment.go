package experiment

import (
	"context"
	"fmt"
	"time"

	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/metrics"
	"github.com/san-kum/streamtrace/internal/streamline"
)

type Config struct {
	Field   string
	Seed    vec.Vec2
	Options streamline.Options
	// SpeedThreshold masks cells at or below this speed before tracing. At the
	// zero value only stagnant and already masked cells are masked.
	SpeedThreshold float64
}

type Result struct {
	Trajectory streamline.Trajectory
	Stats      streamline.Stats
	Metrics    map[string]float64
	Elapsed    time.Duration
}

type Experiment struct {
	cfg     Config
	tracer  *streamline.Tracer
	metrics []metrics.Metric
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(f *field.VectorField, ms ...metrics.Metric) error {
	tracer, err := streamline.NewTracer(f.MaskBelowSpeed(e.cfg.SpeedThreshold), e.cfg.Options)
	if err != nil {
		return err
	}
	e.tracer = tracer
	e.metrics = ms
	return nil
}

// Run traces from the configured seed. The trace cannot be interrupted, so
// if ctx ends first Run returns ctx.Err() and the result is dropped.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.tracer == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type traced struct {
		traj    streamline.Trajectory
		stats   streamline.Stats
		elapsed time.Duration
	}
	done := make(chan traced, 1)
	go func() {
		start := time.Now()
		traj, stats := e.tracer.TraceStats(e.cfg.Seed)
		done <- traced{traj, stats, time.Since(start)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return &Result{
			Trajectory: r.traj,
			Stats:      r.stats,
			Metrics:    metrics.Collect(r.traj, e.metrics...),
			Elapsed:    r.elapsed,
		}, nil
	}
}
