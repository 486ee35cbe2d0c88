package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a first-order ODE dX/dt = f(X, t). Derive returns a slice the
// caller may keep; integrators hold several stages at once.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// SystemFunc adapts a plain function to System. The dimension is taken from
// the state passed in, so StateDim reports 0.
type SystemFunc func(x State, t float64) State

func (f SystemFunc) Derive(x State, t float64) State { return f(x, t) }
func (f SystemFunc) StateDim() int                   { return 0 }

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// Tolerance bounds the local error of an adaptive step component-wise by
// ATol + RTol*max(|x|, |xNew|).
type Tolerance struct {
	RTol float64
	ATol float64
}

func DefaultTolerance() Tolerance {
	return Tolerance{RTol: 1e-3, ATol: 1e-6}
}

func (tol Tolerance) Validate() error {
	for _, v := range []float64{tol.RTol, tol.ATol} {
		if !(v > 0) || math.IsInf(v, 0) {
			return ErrInvalidTolerance
		}
	}
	return nil
}

// ErrorNorm is the RMS of err scaled by the tolerance at x and xNew.
func (tol Tolerance) ErrorNorm(err, x, xNew State) float64 {
	if len(err) == 0 {
		return 0
	}
	sum := 0.0
	for i := range err {
		sc := tol.ATol + math.Max(math.Abs(x[i]), math.Abs(xNew[i]))*tol.RTol
		r := err[i] / sc
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(err)))
}
