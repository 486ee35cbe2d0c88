package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"
)

// The seed table is a CSV file with an "x,y" header and one seed per row.
// Rows that have not been picked yet hold NaN,NaN. Empty cells also read as NaN.

func ReadSeeds(path string) ([]vec.Vec2, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return []vec.Vec2{}, nil
	}

	seeds := make([]vec.Vec2, 0, len(records)-1)
	for line, record := range records[1:] {
		x, errX := parseCell(record[0])
		y, errY := parseCell(record[1])
		if err := errors.Join(errX, errY); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, line+2, err)
		}
		seeds = append(seeds, vec.Vec2{X: x, Y: y})
	}
	return seeds, nil
}

// ReadSeedsOrEmpty reads the seed table and pads it with NaN rows to at
// least n entries. A missing file yields n NaN rows.
func ReadSeedsOrEmpty(path string, n int) ([]vec.Vec2, error) {
	seeds, err := ReadSeeds(path)
	if errors.Is(err, fs.ErrNotExist) {
		seeds, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	for len(seeds) < n {
		seeds = append(seeds, vec.Vec2{X: math.NaN(), Y: math.NaN()})
	}
	return seeds, nil
}

func WriteSeeds(path string, seeds []vec.Vec2) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y"}); err != nil {
		return err
	}
	for _, s := range seeds {
		if err := w.Write([]string{formatCell(s.X), formatCell(s.Y)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

var ErrSeedIndex = errors.New("storage: seed index must be non-negative")

// SeedAt returns row index of the seed table. Rows past the end of the
// table, or a missing table, read as NaN.
func SeedAt(path string, index int) (vec.Vec2, error) {
	if index < 0 {
		return vec.Vec2{}, fmt.Errorf("%w, got %d", ErrSeedIndex, index)
	}
	seeds, err := ReadSeedsOrEmpty(path, index+1)
	if err != nil {
		return vec.Vec2{}, err
	}
	return seeds[index], nil
}

// UpdateSeed sets row index of the seed table, growing it as needed.
func UpdateSeed(path string, index int, seed vec.Vec2) error {
	if index < 0 {
		return fmt.Errorf("%w, got %d", ErrSeedIndex, index)
	}
	seeds, err := ReadSeedsOrEmpty(path, index+1)
	if err != nil {
		return err
	}
	seeds[index] = seed
	return WriteSeeds(path, seeds)
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return formatFloat(v)
}
