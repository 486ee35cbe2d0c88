package field

import (
	"math"
	"sort"

	"seehuhn.de/go/geom/rect"
)

type Grid struct {
	x, y []float64
}

// NewGrid copies the axes and checks that each is finite and strictly
// increasing with at least two entries.
func NewGrid(x, y []float64) (*Grid, error) {
	if err := checkAxis("x", x); err != nil {
		return nil, err
	}
	if err := checkAxis("y", y); err != nil {
		return nil, err
	}
	return &Grid{
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
	}, nil
}

func checkAxis(name string, axis []float64) error {
	if len(axis) < 2 {
		return &GridError{Axis: name, Index: len(axis), Err: ErrTooFewPoints}
	}
	for i, v := range axis {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &GridError{Axis: name, Index: i, Err: ErrNonFiniteCoord}
		}
		if i > 0 && !(v > axis[i-1]) {
			return &GridError{Axis: name, Index: i, Err: ErrNotIncreasing}
		}
	}
	return nil
}

// X returns the x axis. The slice is shared and must not be modified.
func (g *Grid) X() []float64 { return g.x }

// Y returns the y axis. The slice is shared and must not be modified.
func (g *Grid) Y() []float64 { return g.y }

// Shape returns the array shape the grid expects: rows along y, columns along x.
func (g *Grid) Shape() (rows, cols int) { return len(g.y), len(g.x) }

func (g *Grid) Bounds() rect.Rect {
	return rect.Rect{
		LLx: g.x[0],
		LLy: g.y[0],
		URx: g.x[len(g.x)-1],
		URy: g.y[len(g.y)-1],
	}
}

// Contains reports whether (x, y) lies in the closed grid rectangle.
func (g *Grid) Contains(x, y float64) bool {
	return x >= g.x[0] && x <= g.x[len(g.x)-1] &&
		y >= g.y[0] && y <= g.y[len(g.y)-1]
}

// Center is the midpoint of the grid rectangle.
func (g *Grid) Center() (x, y float64) {
	b := g.Bounds()
	return (b.LLx + b.URx) / 2, (b.LLy + b.URy) / 2
}

// cell finds the lower index i of the interval [axis[i], axis[i+1]] used to
// interpolate v, together with the fractional offset inside it. Outside the
// axis the edge interval is used and frac falls outside [0, 1].
func cell(axis []float64, v float64) (int, float64) {
	i := sort.SearchFloat64s(axis, v) - 1
	if i < 0 {
		i = 0
	} else if i > len(axis)-2 {
		i = len(axis) - 2
	}
	frac := (v - axis[i]) / (axis[i+1] - axis[i])
	return i, frac
}
