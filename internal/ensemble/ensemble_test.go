package ensemble

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/dynamo"
	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/streamline"
)

func uniformField(t testing.TB) *field.VectorField {
	t.Helper()
	axis := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	grid, err := field.NewGrid(axis, axis)
	require.NoError(t, err)
	return field.FromFunc(grid, func(x, y float64) (float64, float64) { return 1, 0 })
}

func shortOptions() streamline.Options {
	opts := streamline.DefaultOptions()
	opts.Duration = 2
	opts.Samples = 5
	return opts
}

func TestTraceMany_MatchesSequential(t *testing.T) {
	f := uniformField(t)
	opts := shortOptions()
	seeds := []vec.Vec2{{X: 3, Y: 1}, {X: 5, Y: 5}, {X: 7, Y: 9}, {X: 4, Y: 2}}

	got, err := TraceMany(context.Background(), f, seeds, opts, 2)
	require.NoError(t, err)
	require.Len(t, got, len(seeds))

	for i, seed := range seeds {
		want, err := streamline.Trace(f, seed, opts)
		require.NoError(t, err)
		assert.Equal(t, want, got[i], "seed %d", i)
	}
}

func TestTraceMany_SkipsNonFiniteSeeds(t *testing.T) {
	nan := math.NaN()
	seeds := []vec.Vec2{{X: nan, Y: nan}, {X: 5, Y: 5}, {X: 1, Y: math.Inf(1)}}

	got, err := TraceMany(context.Background(), uniformField(t), seeds, shortOptions(), 0)
	require.NoError(t, err)

	assert.Nil(t, got[0])
	assert.Len(t, got[1], 9)
	assert.Nil(t, got[2])
	assert.Equal(t, 2, Skipped(got))
}

func TestTraceMany_InvalidOptions(t *testing.T) {
	opts := shortOptions()
	opts.Samples = 1

	_, err := TraceMany(context.Background(), uniformField(t), []vec.Vec2{{X: 1, Y: 1}}, opts, 1)
	assert.ErrorIs(t, err, streamline.ErrInvalidOptions)
}

func TestTraceMany_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := TraceMany(ctx, uniformField(t), []vec.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}}, shortOptions(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTraceTimeout(t *testing.T) {
	traj, err := TraceTimeout(context.Background(), uniformField(t), vec.Vec2{X: 5, Y: 5}, shortOptions(), time.Minute)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, traj[0].X, 1e-9)
	assert.InDelta(t, 7.0, traj[len(traj)-1].X, 1e-9)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = TraceTimeout(ctx, uniformField(t), vec.Vec2{X: 5, Y: 5}, shortOptions(), time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTraceTimeout_NonFiniteSeed(t *testing.T) {
	_, err := TraceTimeout(context.Background(), uniformField(t), vec.Vec2{X: math.NaN(), Y: 1}, shortOptions(), time.Minute)
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)
}
