package metrics

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

func finite(p vec.Vec2) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// ArcLength is the polyline length of the trajectory. Non-finite points are
// skipped.
type ArcLength struct {
	prev  vec.Vec2
	seen  bool
	total float64
}

func NewArcLength() *ArcLength { return &ArcLength{} }

func (a *ArcLength) Name() string { return "arc_length" }

func (a *ArcLength) Observe(p vec.Vec2, _ int) {
	if !finite(p) {
		return
	}
	if a.seen {
		a.total += p.Sub(a.prev).Length()
	}
	a.prev, a.seen = p, true
}

func (a *ArcLength) Value() float64 { return a.total }

func (a *ArcLength) Reset() { *a = ArcLength{} }

// Displacement is the straight-line distance between the first and last
// finite points.
type Displacement struct {
	first, last vec.Vec2
	seen        bool
}

func NewDisplacement() *Displacement { return &Displacement{} }

func (d *Displacement) Name() string { return "displacement" }

func (d *Displacement) Observe(p vec.Vec2, _ int) {
	if !finite(p) {
		return
	}
	if !d.seen {
		d.first, d.seen = p, true
	}
	d.last = p
}

func (d *Displacement) Value() float64 {
	if !d.seen {
		return 0
	}
	return d.last.Sub(d.first).Length()
}

func (d *Displacement) Reset() { *d = Displacement{} }
