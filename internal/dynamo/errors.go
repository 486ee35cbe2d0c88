package dynamo

import "errors"

// Domain errors for solver operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidTolerance indicates a non-positive or non-finite tolerance.
	ErrInvalidTolerance = errors.New("dynamo: tolerance must be positive and finite")
)
