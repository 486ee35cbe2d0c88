package streamline

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/streamtrace/internal/dynamo"
	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/integrators"
)

const (
	DefaultDuration = 100000.0
	DefaultSamples  = 10000
	DefaultMethod   = "LSODA"
)

var ErrInvalidOptions = errors.New("streamline: invalid options")

type Options struct {
	// Duration is the integration time in each direction. Under Normalize it
	// is an arclength.
	Duration float64
	// Samples is the number of points produced per direction, seed included.
	Samples   int
	Method    string
	Normalize bool
	Tolerance dynamo.Tolerance
	Bounds    field.Bounds
	MaxSteps  int
	// Substeps applies to the fixed-step methods only.
	Substeps int
}

func DefaultOptions() Options {
	solve := integrators.DefaultSolveOptions()
	return Options{
		Duration:  DefaultDuration,
		Samples:   DefaultSamples,
		Method:    DefaultMethod,
		Tolerance: solve.Tolerance,
		Bounds:    field.BoundsStall,
		MaxSteps:  solve.MaxSteps,
		Substeps:  solve.Substeps,
	}
}

func (o Options) Validate() error {
	if !(o.Duration > 0) || math.IsInf(o.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive and finite, got %v", ErrInvalidOptions, o.Duration)
	}
	if o.Samples < 2 {
		return fmt.Errorf("%w: samples must be at least 2, got %d", ErrInvalidOptions, o.Samples)
	}
	if o.MaxSteps < 1 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidOptions, o.MaxSteps)
	}
	if o.Substeps < 1 {
		return fmt.Errorf("%w: substeps must be positive, got %d", ErrInvalidOptions, o.Substeps)
	}
	if err := o.Tolerance.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	switch o.Bounds {
	case field.BoundsStall, field.BoundsExtrapolate, field.BoundsClamp:
	default:
		return fmt.Errorf("%w: %w: %v", ErrInvalidOptions, field.ErrUnknownBounds, o.Bounds)
	}
	if _, err := integrators.Lookup(o.Method); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

func (o Options) solveOptions() integrators.SolveOptions {
	return integrators.SolveOptions{
		Tolerance: o.Tolerance,
		MaxSteps:  o.MaxSteps,
		Substeps:  o.Substeps,
	}
}
