package integrators

import (
	"math"

	"github.com/san-kum/streamtrace/internal/dynamo"
)

type SolveOptions struct {
	Tolerance dynamo.Tolerance
	// MaxSteps caps accepted plus rejected adaptive steps. Samples past the
	// cap repeat the last accepted state.
	MaxSteps int
	// Substeps is the number of fixed steps taken between two output times.
	Substeps int
}

func DefaultSolveOptions() SolveOptions {
	return SolveOptions{
		Tolerance: dynamo.DefaultTolerance(),
		MaxSteps:  1_000_000,
		Substeps:  4,
	}
}

type Stats struct {
	Accepted    int
	Rejected    int
	Evaluations int
	Exhausted   bool
}

type countingSystem struct {
	dynamo.System
	n int
}

func (c *countingSystem) Derive(x dynamo.State, t float64) dynamo.State {
	c.n++
	return c.System.Derive(x, t)
}

// Solve integrates dyn from x0 at t = 0 and returns the state at every time
// in tEval. tEval must start at 0 and be monotone; its last entry sets the
// integration interval and its sign the direction. The result always has
// len(tEval) entries.
func Solve(m Method, dyn dynamo.System, x0 dynamo.State, tEval []float64, opts SolveOptions) ([]dynamo.State, Stats) {
	out := make([]dynamo.State, len(tEval))
	if len(tEval) == 0 {
		return out, Stats{}
	}
	out[0] = x0.Clone()

	sys := &countingSystem{System: dyn}
	var st Stats
	integ := m.New()
	if adaptive, ok := integ.(Adaptive); ok && m.Adaptive {
		st = solveAdaptive(adaptive, sys, x0, tEval, opts, out)
	} else {
		st = solveFixed(integ, sys, x0, tEval, opts, out)
	}
	st.Evaluations = sys.n
	return out, st
}

func solveFixed(integ dynamo.Integrator, dyn dynamo.System, x0 dynamo.State, tEval []float64, opts SolveOptions, out []dynamo.State) Stats {
	sub := max(opts.Substeps, 1)
	x := x0.Clone()
	var st Stats
	for i := 1; i < len(tEval); i++ {
		t0 := tEval[i-1]
		dt := (tEval[i] - t0) / float64(sub)
		for k := 0; k < sub; k++ {
			x = integ.Step(dyn, x, t0+float64(k)*dt, dt)
			st.Accepted++
		}
		out[i] = x.Clone()
	}
	return st
}

func solveAdaptive(integ Adaptive, dyn dynamo.System, x0 dynamo.State, tEval []float64, opts SolveOptions, out []dynamo.State) Stats {
	var st Stats
	tEnd := tEval[len(tEval)-1]
	if tEnd == 0 {
		for i := range out {
			out[i] = x0.Clone()
		}
		return st
	}

	dir := 1.0
	if tEnd < 0 {
		dir = -1.0
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultSolveOptions().MaxSteps
	}
	ctl := defaultStepControl()
	order := integ.ErrorOrder()

	t := 0.0
	x := x0.Clone()
	f := dyn.Derive(x, t)
	h := initialStep(dyn, x, f, t, dir, math.Abs(tEnd), order, opts.Tolerance)

	next := 1
	rejected := false
	for next < len(tEval) {
		if st.Accepted+st.Rejected >= maxSteps {
			st.Exhausted = true
			break
		}

		// Below this the step no longer moves t; force progress instead of
		// shrinking forever.
		minStep := 10 * math.Abs(math.Nextafter(t, dir*math.Inf(1))-t)
		forced := false
		if h <= minStep {
			h = minStep
			forced = true
		}

		tNew := t + dir*h
		if dir*(tNew-tEnd) > 0 {
			tNew = tEnd
		}
		dt := tNew - t

		att := integ.Try(dyn, x, f, t, dt, opts.Tolerance)
		if !(att.Err <= 1) && !forced {
			h = math.Abs(dt) * ctl.factor(att.Err, order)
			rejected = true
			st.Rejected++
			continue
		}
		// A step from moving into stalled state jumps a velocity
		// discontinuity the error estimate cannot see. Halve it until the
		// end stays on the moving side or the jump is down to a few ulps.
		if !forced && isZero(att.F) && !isZero(f) && !negligible(x, att.X) {
			h = math.Abs(dt) / 2
			rejected = true
			st.Rejected++
			continue
		}

		for next < len(tEval) && dir*(tEval[next]-tNew) <= 0 {
			if tEval[next] == tNew {
				out[next] = att.X.Clone()
			} else {
				out[next] = hermite(t, x, f, tNew, att.X, att.F, tEval[next])
			}
			next++
		}

		grow := ctl.factor(att.Err, order)
		if rejected {
			grow = math.Min(grow, 1)
		}
		h = math.Abs(dt) * grow
		t, x, f = tNew, att.X, att.F
		rejected = false
		st.Accepted++
	}

	for ; next < len(tEval); next++ {
		out[next] = x.Clone()
	}
	return st
}

// negligible reports whether y is within a few ulps of x in every component.
func negligible(x, y dynamo.State) bool {
	for i := range x {
		a := math.Abs(x[i])
		if math.Abs(y[i]-x[i]) > 4*(math.Nextafter(a, math.Inf(1))-a) {
			return false
		}
	}
	return true
}

func isZero(v dynamo.State) bool {
	for _, c := range v {
		if c != 0 {
			return false
		}
	}
	return true
}

// initialStep picks a first step size from the scale of x0, f0 and a
// one-step estimate of the second derivative.
func initialStep(dyn dynamo.System, x0, f0 dynamo.State, t0, dir, interval float64, order int, tol dynamo.Tolerance) float64 {
	n := len(x0)
	if n == 0 {
		return interval
	}
	scale := make([]float64, n)
	for i := range x0 {
		scale[i] = tol.ATol + math.Abs(x0[i])*tol.RTol
	}

	rms := func(v dynamo.State) float64 {
		s := 0.0
		for i := range v {
			r := v[i] / scale[i]
			s += r * r
		}
		return math.Sqrt(s / float64(n))
	}

	d0, d1 := rms(x0), rms(f0)
	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, interval)

	x1 := make(dynamo.State, n)
	for i := range x0 {
		x1[i] = x0[i] + h0*dir*f0[i]
	}
	f1 := dyn.Derive(x1, t0+h0*dir)
	d2 := rms(f1.Sub(f0)) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1/float64(order+1))
	}

	h := math.Min(100*h0, math.Min(h1, interval))
	if !(h > 0) {
		h = math.Min(1e-6, interval)
	}
	return h
}

// hermite evaluates the cubic Hermite interpolant through (t0, x0, f0) and
// (t1, x1, f1) at t.
func hermite(t0 float64, x0, f0 dynamo.State, t1 float64, x1, f1 dynamo.State, t float64) dynamo.State {
	h := t1 - t0
	s := (t - t0) / h
	s2 := s * s
	s3 := s2 * s

	// h00 = 1 - h01 is folded in so that a stalled interval (x0 == x1,
	// zero slopes) reproduces x0 exactly.
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	out := make(dynamo.State, len(x0))
	for i := range x0 {
		out[i] = x0[i] + h01*(x1[i]-x0[i]) + h*(h10*f0[i]+h11*f1[i])
	}
	return out
}
