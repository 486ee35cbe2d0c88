// Package dynamo provides the numerical primitives shared by the streamline
// solver.
//
// The package defines the small vocabulary every integrator speaks:
//
//   - [State]: vector representing the position being integrated
//   - [System]: interface for autonomous or time-dependent ODEs (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Tolerance]: mixed absolute/relative error bound for adaptive steppers
//
// # Example
//
//	sys := dynamo.SystemFunc(func(x dynamo.State, t float64) dynamo.State {
//		return dynamo.State{-x[1], x[0]}
//	})
//	x := integrators.NewRK4().Step(sys, dynamo.State{1, 0}, 0, 0.01)
//
// # Thread Safety
//
// State values are plain slices and are not safe for concurrent mutation.
// Integrators keep scratch buffers and must not be shared between goroutines;
// construct one per solve.
package dynamo
