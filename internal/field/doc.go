// Package field holds velocity fields sampled on a regular 2D grid and the
// bilinear sampler that evaluates them at arbitrary coordinates.
//
// A [Grid] is two strictly increasing coordinate axes. A [VectorField] adds
// U and V component arrays (rows indexed by y, columns by x) and a speed
// array. Both are immutable once constructed and may be read from any number
// of goroutines.
//
// A [Sampler] never fails: points outside the grid are handled by its
// [Bounds] policy, and masked (NaN) cells propagate NaN so callers can treat
// them as stagnation.
package field
