package integrators

import "github.com/san-kum/streamtrace/internal/dynamo"

// Bogacki-Shampine coefficients (RK23)
var (
	bsA2 = 1.0 / 2.0
	bsA3 = 3.0 / 4.0

	bsB1 = 2.0 / 9.0
	bsB2 = 1.0 / 3.0
	bsB3 = 4.0 / 9.0

	bsE1 = 5.0 / 72.0
	bsE2 = -1.0 / 12.0
	bsE3 = -1.0 / 9.0
	bsE4 = 1.0 / 8.0
)

// RK23 is the Bogacki-Shampine 3(2) pair. Cheaper per step than RK45 and
// better suited to loose tolerances.
type RK23 struct {
	x2, x3 dynamo.State
	errEst dynamo.State
}

func NewRK23() *RK23 {
	return &RK23{}
}

func (r *RK23) ensureScratch(n int) {
	if len(r.x2) != n {
		r.x2 = make(dynamo.State, n)
		r.x3 = make(dynamo.State, n)
		r.errEst = make(dynamo.State, n)
	}
}

func (r *RK23) ErrorOrder() int { return 2 }

func (r *RK23) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return r.Try(dyn, x, dyn.Derive(x, t), t, dt, dynamo.DefaultTolerance()).X
}

func (r *RK23) Try(dyn dynamo.System, x, k1 dynamo.State, t, dt float64, tol dynamo.Tolerance) Attempt {
	n := len(x)
	r.ensureScratch(n)

	for i := 0; i < n; i++ {
		r.x2[i] = x[i] + dt*bsA2*k1[i]
	}
	k2 := dyn.Derive(r.x2, t+bsA2*dt)

	for i := 0; i < n; i++ {
		r.x3[i] = x[i] + dt*bsA3*k2[i]
	}
	k3 := dyn.Derive(r.x3, t+bsA3*dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(bsB1*k1[i]+bsB2*k2[i]+bsB3*k3[i])
	}

	k4 := dyn.Derive(xNew, t+dt)

	for i := 0; i < n; i++ {
		r.errEst[i] = dt * (bsE1*k1[i] + bsE2*k2[i] + bsE3*k3[i] + bsE4*k4[i])
	}

	return Attempt{
		X:   xNew,
		F:   k4.Clone(),
		Err: tol.ErrorNorm(r.errEst, x, xNew),
	}
}
