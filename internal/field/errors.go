package field

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewPoints   = errors.New("field: axis needs at least two coordinates")
	ErrNotIncreasing  = errors.New("field: coordinates must be strictly increasing")
	ErrNonFiniteCoord = errors.New("field: coordinate is NaN or Inf")
	ErrShapeMismatch  = errors.New("field: array shape does not match grid")
	ErrEmptyRegion    = errors.New("field: region keeps fewer than two grid lines per axis")
	ErrUnknownBounds  = errors.New("field: unknown bounds policy")
)

// GridError locates a construction failure on an axis or array.
type GridError struct {
	Axis  string
	Index int
	Err   error
}

func (e *GridError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Axis, e.Index, e.Err)
}

func (e *GridError) Unwrap() error {
	return e.Err
}
