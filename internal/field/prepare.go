package field

import (
	"math"

	"seehuhn.de/go/geom/rect"
)

// Crop returns the sub-field whose grid lines fall inside the closed
// rectangle [minX, maxX] x [minY, maxY].
func (f *VectorField) Crop(minX, maxX, minY, maxY float64) (*VectorField, error) {
	j0, j1 := span(f.grid.x, minX, maxX)
	i0, i1 := span(f.grid.y, minY, maxY)
	return f.slice(i0, i1, j0, j1)
}

// MaskBelowSpeed returns a copy where every cell whose speed is not above
// threshold has U, V and speed set to NaN. Trajectories stall on such cells.
func (f *VectorField) MaskBelowSpeed(threshold float64) *VectorField {
	out := &VectorField{
		grid:  f.grid,
		u:     copyRows(f.u),
		v:     copyRows(f.v),
		speed: copyRows(f.speed),
	}
	nan := math.NaN()
	for i, row := range out.speed {
		for j, s := range row {
			if !(s > threshold) {
				out.u[i][j], out.v[i][j], out.speed[i][j] = nan, nan, nan
			}
		}
	}
	return out
}

// MaskedExtent returns the bounding rectangle of the cells with finite speed.
// ok is false when every cell is masked.
func (f *VectorField) MaskedExtent() (r rect.Rect, ok bool) {
	i0, i1, j0, j1, ok := f.finiteSpan()
	if !ok {
		return rect.Rect{}, false
	}
	return rect.Rect{
		LLx: f.grid.x[j0],
		LLy: f.grid.y[i0],
		URx: f.grid.x[j1-1],
		URy: f.grid.y[i1-1],
	}, true
}

// CropToFinite trims rows and columns that hold only masked cells.
func (f *VectorField) CropToFinite() (*VectorField, error) {
	i0, i1, j0, j1, ok := f.finiteSpan()
	if !ok {
		return nil, ErrEmptyRegion
	}
	return f.slice(i0, i1, j0, j1)
}

// finiteSpan returns half-open row and column index ranges covering the
// finite cells.
func (f *VectorField) finiteSpan() (i0, i1, j0, j1 int, ok bool) {
	rows, cols := f.grid.Shape()
	i0, j0 = rows, cols
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			s := f.speed[i][j]
			if math.IsNaN(s) || math.IsInf(s, 0) {
				continue
			}
			i0, i1 = min(i0, i), max(i1, i+1)
			j0, j1 = min(j0, j), max(j1, j+1)
		}
	}
	return i0, i1, j0, j1, i1 > i0
}

func (f *VectorField) slice(i0, i1, j0, j1 int) (*VectorField, error) {
	if i1-i0 < 2 || j1-j0 < 2 {
		return nil, ErrEmptyRegion
	}
	grid := &Grid{
		x: append([]float64(nil), f.grid.x[j0:j1]...),
		y: append([]float64(nil), f.grid.y[i0:i1]...),
	}
	sub := func(a [][]float64) [][]float64 {
		out := make([][]float64, 0, i1-i0)
		for _, row := range a[i0:i1] {
			out = append(out, append([]float64(nil), row[j0:j1]...))
		}
		return out
	}
	return &VectorField{
		grid:  grid,
		u:     sub(f.u),
		v:     sub(f.v),
		speed: sub(f.speed),
	}, nil
}

// span returns the half-open index range of axis values inside [lo, hi].
func span(axis []float64, lo, hi float64) (int, int) {
	start := len(axis)
	end := 0
	for i, v := range axis {
		if v >= lo && v <= hi {
			start = min(start, i)
			end = i + 1
		}
	}
	if end < start {
		return 0, 0
	}
	return start, end
}
