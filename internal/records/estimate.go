// Package records detects, classifies and follows up on personal records.
package records

import (
	"math"
	"strconv"
)

// E1RM estimates a one-rep max with the Epley formula. A single rep returns
// the weight itself. Non-positive or non-finite inputs yield 0.
func E1RM(weightKg float64, reps int) float64 {
	if !validSet(weightKg, reps) {
		return 0
	}
	if reps == 1 {
		return round(weightKg, 4)
	}
	return round(weightKg*(1+float64(reps)/30), 4)
}

// Volume returns weight × reps for a single set, or 0 for invalid input.
func Volume(weightKg float64, reps int) float64 {
	if !validSet(weightKg, reps) {
		return 0
	}
	return weightKg * float64(reps)
}

// FormatKg renders a kilogram value with two decimals for display.
func FormatKg(v float64) string {
	return strconv.FormatFloat(round(v, 2), 'f', 2, 64)
}

func validSet(weightKg float64, reps int) bool {
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return false
	}
	return weightKg > 0 && reps > 0
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
