// Package metrics summarizes traced streamlines.
package metrics

import (
	"seehuhn.de/go/geom/vec"
)

// Metric accumulates a scalar over the points of a trajectory, in order.
type Metric interface {
	Name() string
	Observe(p vec.Vec2, i int)
	Value() float64
	Reset()
}

// Default returns a fresh instance of every trajectory metric.
func Default() []Metric {
	return []Metric{
		NewArcLength(),
		NewDisplacement(),
		NewStallRun(),
		NewStepSpread(),
	}
}

// Collect resets each metric, feeds it points and returns the values by name.
func Collect(points []vec.Vec2, ms ...Metric) map[string]float64 {
	if len(ms) == 0 {
		ms = Default()
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i, p := range points {
			m.Observe(p, i)
		}
		out[m.Name()] = m.Value()
	}
	return out
}
