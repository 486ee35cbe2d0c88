package integrators

import (
	"math"

	"github.com/san-kum/streamtrace/internal/dynamo"
)

// Attempt is the outcome of one trial step of an embedded Runge-Kutta pair.
type Attempt struct {
	X   dynamo.State // candidate state at t+dt
	F   dynamo.State // derivative at X, reused as the next step's first stage
	Err float64      // local error norm scaled by the tolerance; <= 1 is acceptable
}

// Adaptive is an integrator with an embedded error estimate.
type Adaptive interface {
	dynamo.Integrator
	// ErrorOrder is the order of the embedded error estimate.
	ErrorOrder() int
	// Try advances x by dt given f = dyn.Derive(x, t).
	Try(dyn dynamo.System, x, f dynamo.State, t, dt float64, tol dynamo.Tolerance) Attempt
}

// stepControl turns an error norm into a step size factor.
type stepControl struct {
	safety   float64
	minScale float64
	maxScale float64
}

func defaultStepControl() stepControl {
	return stepControl{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (c stepControl) factor(errNorm float64, order int) float64 {
	switch {
	case math.IsNaN(errNorm) || math.IsInf(errNorm, 1):
		return c.minScale
	case errNorm == 0:
		return c.maxScale
	}
	scale := c.safety * math.Pow(errNorm, -1/float64(order+1))
	return math.Min(c.maxScale, math.Max(c.minScale, scale))
}
