package records

import (
	"math"
	"testing"
)

// TestE1RMSingleRep verifies that one rep returns the weight unchanged.
func TestE1RMSingleRep(t *testing.T) {
	for _, w := range []float64{1, 60, 102.5, 250} {
		if got := E1RM(w, 1); got != w {
			t.Errorf("E1RM(%v, 1) = %v, want %v", w, got, w)
		}
	}
}

// TestE1RMEpley verifies the Epley estimate and its 4-decimal rounding.
func TestE1RMEpley(t *testing.T) {
	tests := []struct {
		weight float64
		reps   int
		want   float64
	}{
		{100, 5, 116.6667},
		{100, 10, 133.3333},
		{80, 8, 101.3333},
		{60, 3, 66},
	}
	for _, tt := range tests {
		if got := E1RM(tt.weight, tt.reps); got != tt.want {
			t.Errorf("E1RM(%v, %d) = %v, want %v", tt.weight, tt.reps, got, tt.want)
		}
	}
}

// TestE1RMInvalid verifies that non-positive or non-finite inputs yield 0
// rather than an error.
func TestE1RMInvalid(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		reps   int
	}{
		{"zero weight", 0, 5},
		{"negative weight", -20, 5},
		{"zero reps", 100, 0},
		{"negative reps", 100, -3},
		{"nan", math.NaN(), 5},
		{"inf", math.Inf(1), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := E1RM(tt.weight, tt.reps); got != 0 {
				t.Errorf("E1RM = %v, want 0", got)
			}
		})
	}
}

// TestE1RMMonotonic verifies e1RM grows with weight at fixed reps and with
// reps at fixed weight.
func TestE1RMMonotonic(t *testing.T) {
	for reps := 1; reps <= 15; reps++ {
		prev := 0.0
		for w := 2.5; w <= 200; w += 2.5 {
			got := E1RM(w, reps)
			if got <= prev {
				t.Fatalf("E1RM(%v, %d) = %v not greater than %v", w, reps, got, prev)
			}
			prev = got
		}
	}
	for _, w := range []float64{20, 60, 100, 140} {
		prev := E1RM(w, 1)
		for reps := 2; reps <= 20; reps++ {
			got := E1RM(w, reps)
			if got <= prev {
				t.Fatalf("E1RM(%v, %d) = %v not greater than %v", w, reps, got, prev)
			}
			prev = got
		}
	}
}

// TestFormatKg verifies the two-decimal display format.
func TestFormatKg(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{116.6667, "116.67"},
		{100, "100.00"},
		{102.5, "102.50"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatKg(tt.v); got != tt.want {
			t.Errorf("FormatKg(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

// TestVolume verifies weight × reps and the invalid-input guard.
func TestVolume(t *testing.T) {
	if got := Volume(20, 5); got != 100 {
		t.Errorf("Volume(20, 5) = %v, want 100", got)
	}
	if got := Volume(0, 5); got != 0 {
		t.Errorf("Volume(0, 5) = %v, want 0", got)
	}
	if got := Volume(20, -1); got != 0 {
		t.Errorf("Volume(20, -1) = %v, want 0", got)
	}
}
