package field

import (
	"math"
)

type VectorField struct {
	grid  *Grid
	u, v  [][]float64
	speed [][]float64
}

type options struct {
	speed [][]float64
}

type Option func(*options)

// WithSpeed attaches a precomputed speed array used for normalization instead
// of deriving it from U and V.
func WithSpeed(speed [][]float64) Option {
	return func(o *options) { o.speed = speed }
}

// New builds a field over grid. U, V (and speed when given) must have
// len(grid.Y()) rows of len(grid.X()) columns. The arrays are copied.
func New(grid *Grid, u, v [][]float64, opts ...Option) (*VectorField, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rows, cols := grid.Shape()
	if err := checkShape("u", u, rows, cols); err != nil {
		return nil, err
	}
	if err := checkShape("v", v, rows, cols); err != nil {
		return nil, err
	}

	f := &VectorField{
		grid: grid,
		u:    copyRows(u),
		v:    copyRows(v),
	}

	if o.speed != nil {
		if err := checkShape("speed", o.speed, rows, cols); err != nil {
			return nil, err
		}
		f.speed = copyRows(o.speed)
	} else {
		f.speed = make([][]float64, rows)
		for i := range f.speed {
			f.speed[i] = make([]float64, cols)
			for j := range f.speed[i] {
				f.speed[i][j] = math.Hypot(f.u[i][j], f.v[i][j])
			}
		}
	}

	return f, nil
}

// FromFunc samples fn at every lattice point of grid.
func FromFunc(grid *Grid, fn func(x, y float64) (u, v float64)) *VectorField {
	rows, cols := grid.Shape()
	u := make([][]float64, rows)
	v := make([][]float64, rows)
	speed := make([][]float64, rows)
	for i, y := range grid.y {
		u[i] = make([]float64, cols)
		v[i] = make([]float64, cols)
		speed[i] = make([]float64, cols)
		for j, x := range grid.x {
			u[i][j], v[i][j] = fn(x, y)
			speed[i][j] = math.Hypot(u[i][j], v[i][j])
		}
	}
	return &VectorField{grid: grid, u: u, v: v, speed: speed}
}

func checkShape(name string, a [][]float64, rows, cols int) error {
	if len(a) != rows {
		return &GridError{Axis: name, Index: len(a), Err: ErrShapeMismatch}
	}
	for i, row := range a {
		if len(row) != cols {
			return &GridError{Axis: name, Index: i, Err: ErrShapeMismatch}
		}
	}
	return nil
}

func copyRows(a [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func (f *VectorField) Grid() *Grid { return f.grid }

// At returns the lattice values at row i (y index) and column j (x index).
func (f *VectorField) At(i, j int) (u, v, speed float64) {
	return f.u[i][j], f.v[i][j], f.speed[i][j]
}

// MaxSpeed is the largest finite speed in the field, or 0 if there is none.
func (f *VectorField) MaxSpeed() float64 {
	m := 0.0
	for _, row := range f.speed {
		for _, s := range row {
			if s > m && !math.IsInf(s, 0) {
				m = s
			}
		}
	}
	return m
}
