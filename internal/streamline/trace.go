package streamline

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/dynamo"
	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/integrators"
)

type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Trajectory is an ordered polyline. For a traced streamline it runs from the
// backward end through the seed to the forward end.
type Trajectory []vec.Vec2

// SeedIndex is the position of the seed in a trajectory traced with the
// given per-direction sample count.
func SeedIndex(samples int) int { return samples - 1 }

// XY splits the trajectory into coordinate slices.
func (tr Trajectory) XY() (xs, ys []float64) {
	xs = make([]float64, len(tr))
	ys = make([]float64, len(tr))
	for i, p := range tr {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// Stats reports solver work for both directions of a trace.
type Stats struct {
	Forward  integrators.Stats
	Backward integrators.Stats
}

type Tracer struct {
	sampler *field.Sampler
	method  integrators.Method
	opts    Options
}

// NewTracer validates opts once. A Tracer built without error never fails to
// trace.
func NewTracer(f *field.VectorField, opts Options) (*Tracer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m, err := integrators.Lookup(opts.Method)
	if err != nil {
		return nil, err
	}
	return &Tracer{
		sampler: field.NewSampler(f, opts.Normalize, opts.Bounds),
		method:  m,
		opts:    opts,
	}, nil
}

// Trace is the one-shot form of NewTracer followed by Tracer.Trace.
func Trace(f *field.VectorField, seed vec.Vec2, opts Options) (Trajectory, error) {
	tr, err := NewTracer(f, opts)
	if err != nil {
		return nil, err
	}
	return tr.Trace(seed), nil
}

func (t *Tracer) Trace(seed vec.Vec2) Trajectory {
	traj, _ := t.TraceStats(seed)
	return traj
}

// TraceStats joins the reversed backward run with the forward run minus its
// first point, so the seed appears once at SeedIndex.
func (t *Tracer) TraceStats(seed vec.Vec2) (Trajectory, Stats) {
	bwd, bst := t.integrate(seed, Backward)
	fwd, fst := t.integrate(seed, Forward)

	out := make(Trajectory, 0, len(bwd)+len(fwd)-1)
	for i := len(bwd) - 1; i >= 0; i-- {
		out = append(out, bwd[i])
	}
	out = append(out, fwd[1:]...)
	return out, Stats{Forward: fst, Backward: bst}
}

// Integrate runs one direction and returns exactly Samples points ordered by
// increasing |t|, starting at the seed.
func (t *Tracer) Integrate(seed vec.Vec2, dir Direction) []vec.Vec2 {
	pts, _ := t.integrate(seed, dir)
	return pts
}

func (t *Tracer) integrate(seed vec.Vec2, dir Direction) ([]vec.Vec2, integrators.Stats) {
	n := t.opts.Samples
	out := make([]vec.Vec2, n)

	if !finite(seed.X) || !finite(seed.Y) {
		for i := range out {
			out[i] = seed
		}
		return out, integrators.Stats{}
	}

	states, st := integrators.Solve(t.method, velocity{t.sampler}, dynamo.State{seed.X, seed.Y},
		sampleTimes(float64(dir)*t.opts.Duration, n), t.opts.solveOptions())
	for i, x := range states {
		out[i] = vec.Vec2{X: x[0], Y: x[1]}
	}
	return out, st
}

// sampleTimes spaces n times evenly from 0 to end inclusive.
func sampleTimes(end float64, n int) []float64 {
	ts := make([]float64, n)
	step := end / float64(n-1)
	for i := range ts {
		ts[i] = float64(i) * step
	}
	ts[n-1] = end
	return ts
}

// velocity is the right-hand side handed to the solver. Non-finite samples
// become the zero vector: the trajectory stalls at the domain edge, on masked
// cells and at stagnation points instead of diverging.
type velocity struct {
	s *field.Sampler
}

func (v velocity) Derive(x dynamo.State, _ float64) dynamo.State {
	u, w := v.s.Sample(x[0], x[1])
	if !finite(u) || !finite(w) {
		return dynamo.State{0, 0}
	}
	return dynamo.State{u, w}
}

func (v velocity) StateDim() int { return 2 }

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
