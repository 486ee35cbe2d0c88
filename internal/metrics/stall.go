package metrics

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// StallRun is the longest run of consecutive points that repeat their
// predecessor exactly. A trace that never leaves its seed scores len-1.
type StallRun struct {
	prev    vec.Vec2
	seen    bool
	run     int
	longest int
}

func NewStallRun() *StallRun { return &StallRun{} }

func (s *StallRun) Name() string { return "stall_run" }

func (s *StallRun) Observe(p vec.Vec2, _ int) {
	if s.seen && p == s.prev {
		s.run++
		if s.run > s.longest {
			s.longest = s.run
		}
	} else {
		s.run = 0
	}
	s.prev, s.seen = p, true
}

func (s *StallRun) Value() float64 { return float64(s.longest) }

func (s *StallRun) Reset() { *s = StallRun{} }

// StepSpread is the coefficient of variation of the nonzero spacing between
// consecutive points. Arclength-normalized traces score near zero.
type StepSpread struct {
	prev vec.Vec2
	seen bool
	n    int
	mean float64
	m2   float64
}

func NewStepSpread() *StepSpread { return &StepSpread{} }

func (s *StepSpread) Name() string { return "step_spread" }

func (s *StepSpread) Observe(p vec.Vec2, _ int) {
	if !finite(p) {
		return
	}
	if s.seen {
		if d := p.Sub(s.prev).Length(); d > 0 {
			// Welford
			s.n++
			delta := d - s.mean
			s.mean += delta / float64(s.n)
			s.m2 += delta * (d - s.mean)
		}
	}
	s.prev, s.seen = p, true
}

func (s *StepSpread) Value() float64 {
	if s.n < 2 || s.mean == 0 {
		return 0
	}
	return math.Sqrt(s.m2/float64(s.n)) / s.mean
}

func (s *StepSpread) Reset() { *s = StepSpread{} }
