package metrics

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestCollect(t *testing.T) {
	// Right 3, then up 4, then stalled twice.
	points := []vec.Vec2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 4}, {X: 3, Y: 4}}

	got := Collect(points)

	want := map[string]float64{
		"arc_length":   7,
		"displacement": 5,
		"stall_run":    2,
	}
	for name, w := range want {
		if math.Abs(got[name]-w) > 1e-12 {
			t.Errorf("%s = %v, want %v", name, got[name], w)
		}
	}
	// Spacings 3 and 4: mean 3.5, stddev 0.5.
	if math.Abs(got["step_spread"]-0.5/3.5) > 1e-12 {
		t.Errorf("step_spread = %v", got["step_spread"])
	}
}

func TestCollect_SkipsNonFinite(t *testing.T) {
	nan := math.NaN()
	points := []vec.Vec2{{X: nan, Y: nan}, {X: 0, Y: 0}, {X: nan, Y: 1}, {X: 1, Y: 0}}

	got := Collect(points, NewArcLength(), NewDisplacement())
	if got["arc_length"] != 1 || got["displacement"] != 1 {
		t.Errorf("got %v", got)
	}
}

func TestStallRun_Seed(t *testing.T) {
	points := make([]vec.Vec2, 9)
	for i := range points {
		points[i] = vec.Vec2{X: -1, Y: 2}
	}
	m := NewStallRun()
	got := Collect(points, m)
	if got["stall_run"] != 8 {
		t.Errorf("stall_run = %v, want 8", got["stall_run"])
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestStepSpread_Uniform(t *testing.T) {
	var points []vec.Vec2
	for i := 0; i < 20; i++ {
		points = append(points, vec.Vec2{X: math.Cos(float64(i) * 0.1), Y: math.Sin(float64(i) * 0.1)})
	}
	if v := Collect(points, NewStepSpread())["step_spread"]; v > 1e-9 {
		t.Errorf("equal chords should have no spread, got %v", v)
	}
}
