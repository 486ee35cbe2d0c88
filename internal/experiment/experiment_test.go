package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/streamline"
)

func TestRegistry_Fields(t *testing.T) {
	r := NewRegistry()

	names := r.ListFields()
	if len(names) != 7 {
		t.Fatalf("expected 7 fields, got %v", names)
	}
	for _, name := range names {
		f, err := r.GetField(name, 11)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if rows, cols := f.Grid().Shape(); rows != 11 || cols != 11 {
			t.Errorf("%s: shape %dx%d", name, rows, cols)
		}
	}

	if _, err := r.GetField("tornado", 11); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestRegistry_Methods(t *testing.T) {
	r := NewRegistry()
	if _, err := r.GetMethod("lsoda"); err != nil {
		t.Error(err)
	}
	if _, err := r.GetMethod("heun"); err == nil {
		t.Error("expected error for unknown method")
	}
	if len(r.ListMethods()) == 0 {
		t.Error("expected methods")
	}
}

func TestGlacier_Terminus(t *testing.T) {
	if u, _ := glacier(8, 0); u != 0 {
		t.Errorf("u at terminus = %v", u)
	}
	if u, v := glacier(2, 3); u != 0 || v != 0 {
		t.Errorf("wall velocity = %v,%v", u, v)
	}
}

func TestExperiment_Run(t *testing.T) {
	r := NewRegistry()
	f, err := r.GetField("uniform", 11)
	if err != nil {
		t.Fatal(err)
	}

	opts := streamline.DefaultOptions()
	opts.Duration = 2
	opts.Samples = 5
	exp := New(Config{Field: "uniform", Seed: vec.Vec2{X: 5, Y: 5}, Options: opts})

	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
	if err := exp.Setup(f); err != nil {
		t.Fatal(err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Trajectory) != 9 {
		t.Fatalf("len = %d, want 9", len(res.Trajectory))
	}
	if math.Abs(res.Metrics["arc_length"]-4) > 1e-6 {
		t.Errorf("arc_length = %v, want 4", res.Metrics["arc_length"])
	}
	if res.Stats.Forward.Evaluations == 0 {
		t.Error("expected solver work to be recorded")
	}
}

func TestExperiment_Masked(t *testing.T) {
	f, _ := NewRegistry().GetField("glacier", 21)

	opts := streamline.DefaultOptions()
	opts.Duration = 50
	opts.Samples = 20
	exp := New(Config{Seed: vec.Vec2{X: 9, Y: 0}, Options: opts, SpeedThreshold: 0.2})
	if err := exp.Setup(f); err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Seed sits in the masked zone beyond the terminus.
	if res.Metrics["displacement"] != 0 {
		t.Errorf("masked seed moved %v", res.Metrics["displacement"])
	}
}

func TestExperiment_Cancelled(t *testing.T) {
	f, _ := NewRegistry().GetField("zero", 5)
	opts := streamline.DefaultOptions()
	opts.Samples = 3
	exp := New(Config{Options: opts})
	if err := exp.Setup(f); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := exp.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExperiment_ZeroThresholdMasksStagnantCells(t *testing.T) {
	// 21 points put the terminus (8, 0) on the lattice with zero speed.
	f, _ := NewRegistry().GetField("glacier", 21)
	opts := streamline.DefaultOptions()
	opts.Duration = 50
	opts.Samples = 20
	seed := vec.Vec2{X: 7.8, Y: 0.1}

	masked := New(Config{Seed: seed, Options: opts})
	if err := masked.Setup(f); err != nil {
		t.Fatal(err)
	}
	res, err := masked.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if d := res.Metrics["displacement"]; d != 0 {
		t.Errorf("seed beside the stagnant terminus moved %v", d)
	}

	moving, err := streamline.Trace(f, seed, opts)
	if err != nil {
		t.Fatal(err)
	}
	if end := moving[len(moving)-1]; !(end.X > seed.X) {
		t.Errorf("unmasked field should carry the seed downstream, ended at %v", end)
	}
}
