package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2}
	b := State{4, 6}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 4 {
		t.Errorf("Sub failed: got %v", diff)
	}
	if short := b.Sub(State{1}); short[0] != 3 || short[1] != 6 {
		t.Errorf("Sub with shorter operand: got %v", short)
	}

	c := a.Clone()
	c[0] = 99
	if a[0] == 99 {
		t.Error("Clone did not copy")
	}
}

func TestTolerance(t *testing.T) {
	if err := DefaultTolerance().Validate(); err != nil {
		t.Fatalf("default tolerance invalid: %v", err)
	}

	bad := []Tolerance{{0, 1e-6}, {1e-3, -1}, {math.NaN(), 1e-6}, {1e-3, math.Inf(1)}}
	for _, tol := range bad {
		if err := tol.Validate(); !errors.Is(err, ErrInvalidTolerance) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidTolerance", tol, err)
		}
	}

	tol := Tolerance{RTol: 0, ATol: 1}
	got := tol.ErrorNorm(State{3, 4}, State{0, 0}, State{0, 0})
	want := math.Sqrt((9.0 + 16.0) / 2)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ErrorNorm = %v, want %v", got, want)
	}
}
