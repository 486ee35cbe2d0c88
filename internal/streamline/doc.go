// Package streamline traces curves tangent to a sampled velocity field.
//
// A [Tracer] integrates dX/dt = v(X) from a seed once forward and once
// backward in time and joins the two runs into a single [Trajectory] of
// 2·Samples−1 points with the seed in the middle. Where the field cannot be
// evaluated (outside the grid, on masked cells, or at zero speed under
// normalization) the velocity is taken as zero, so the trajectory stops there
// and the remaining samples repeat the stop position.
//
// Tracers are immutable and safe for concurrent use; every call allocates its
// own solver state.
package streamline
