package experiment

import (
	"math"

	"seehuhn.de/go/geom/rect"
)

// FieldSpec is an analytic velocity field sampled onto a grid on demand.
type FieldSpec struct {
	Name        string
	Description string
	Domain      rect.Rect
	Velocity    func(x, y float64) (u, v float64)
}

var square = rect.Rect{LLx: -5, LLy: -5, URx: 5, URy: 5}

func builtinFields() []FieldSpec {
	return []FieldSpec{
		{
			Name:        "uniform",
			Description: "constant unit flow along +x",
			Domain:      rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 10},
			Velocity:    func(x, y float64) (float64, float64) { return 1, 0 },
		},
		{
			Name:        "zero",
			Description: "no flow anywhere",
			Domain:      square,
			Velocity:    func(x, y float64) (float64, float64) { return 0, 0 },
		},
		{
			Name:        "vortex",
			Description: "solid-body rotation about the origin",
			Domain:      square,
			Velocity:    func(x, y float64) (float64, float64) { return -y, x },
		},
		{
			Name:        "saddle",
			Description: "hyperbolic point at the origin, outflow along x",
			Domain:      square,
			Velocity:    func(x, y float64) (float64, float64) { return x, -y },
		},
		{
			Name:        "source",
			Description: "radial outflow from the origin",
			Domain:      square,
			Velocity:    func(x, y float64) (float64, float64) { return x, y },
		},
		{
			Name:        "shear",
			Description: "x velocity growing linearly with y",
			Domain:      square,
			Velocity:    func(x, y float64) (float64, float64) { return y, 0 },
		},
		{
			Name:        "glacier",
			Description: "valley flow converging on the centreline and stopping at a terminus at x=8",
			Domain:      rect.Rect{LLx: 0, LLy: -3, URx: 10, URy: 3},
			Velocity:    glacier,
		},
	}
}

func glacier(x, y float64) (float64, float64) {
	const (
		terminus  = 8.0
		halfWidth = 3.0
	)
	// Parabolic cross-valley profile, zero at the walls.
	profile := math.Max(0, 1-(y/halfWidth)*(y/halfWidth))
	u := (terminus - x) / terminus * profile
	v := -0.1 * y * profile
	return u, v
}
