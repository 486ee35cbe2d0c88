// Package fieldio reads and writes gridded velocity fields as JSON.
//
// A field file holds the two axes and row-major component arrays:
//
//	{"x": [...], "y": [...], "u": [[...]], "v": [[...]], "speed": [[...]]}
//
// Rows follow y and columns follow x. speed is optional. Raster exports
// usually store y top-down, so a strictly decreasing y axis is accepted and
// flipped. Non-finite values are written as null and read back as NaN.
package fieldio

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/streamtrace/internal/field"
)

type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (n *number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

type fileFormat struct {
	X     []float64  `json:"x"`
	Y     []float64  `json:"y"`
	U     [][]number `json:"u"`
	V     [][]number `json:"v"`
	Speed [][]number `json:"speed,omitempty"`
}

func Read(r io.Reader) (*field.VectorField, error) {
	var ff fileFormat
	if err := json.NewDecoder(r).Decode(&ff); err != nil {
		return nil, fmt.Errorf("decode field: %w", err)
	}

	y := ff.Y
	u, v, speed := toFloats(ff.U), toFloats(ff.V), toFloats(ff.Speed)
	if descending(y) {
		y = reversed(y)
		u, v, speed = reversed(u), reversed(v), reversed(speed)
	}

	grid, err := field.NewGrid(ff.X, y)
	if err != nil {
		return nil, err
	}
	var opts []field.Option
	if speed != nil {
		opts = append(opts, field.WithSpeed(speed))
	}
	return field.New(grid, u, v, opts...)
}

func ReadFile(path string) (*field.VectorField, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vf, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vf, nil
}

// Write encodes f with ascending axes and an explicit speed array.
func Write(w io.Writer, f *field.VectorField) error {
	g := f.Grid()
	rows, cols := g.Shape()
	ff := fileFormat{
		X:     g.X(),
		Y:     g.Y(),
		U:     make([][]number, rows),
		V:     make([][]number, rows),
		Speed: make([][]number, rows),
	}
	for i := 0; i < rows; i++ {
		ff.U[i] = make([]number, cols)
		ff.V[i] = make([]number, cols)
		ff.Speed[i] = make([]number, cols)
		for j := 0; j < cols; j++ {
			u, v, s := f.At(i, j)
			ff.U[i][j], ff.V[i][j], ff.Speed[i][j] = number(u), number(v), number(s)
		}
	}
	return json.NewEncoder(w).Encode(ff)
}

func WriteFile(path string, f *field.VectorField) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func toFloats(a [][]number) [][]float64 {
	if a == nil {
		return nil
	}
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = make([]float64, len(row))
		for j, n := range row {
			out[i][j] = float64(n)
		}
	}
	return out
}

func descending(axis []float64) bool {
	if len(axis) < 2 {
		return false
	}
	for i := 1; i < len(axis); i++ {
		if !(axis[i] < axis[i-1]) {
			return false
		}
	}
	return true
}

func reversed[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
