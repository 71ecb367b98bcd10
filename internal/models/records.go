package models

import (
	"time"

	"github.com/google/uuid"
)

// PRType identifies the metric a personal record is tracked on.
type PRType string

const (
	PRTypeE1RM          PRType = "e1RM"
	PRTypeWeightReps    PRType = "weight_reps"
	PRType3RM           PRType = "3RM"
	PRType5RM           PRType = "5RM"
	PRType8RM           PRType = "8RM"
	PRTypeSessionVolume PRType = "session_volume"
)

// SessionExerciseName is the pseudo exercise name session volume records are
// keyed by.
const SessionExerciseName = "session"

// PRTypes lists every PR type in detection order.
var PRTypes = []PRType{
	PRTypeE1RM, PRTypeWeightReps, PRType3RM, PRType5RM, PRType8RM, PRTypeSessionVolume,
}

// Valid reports whether t is a known PR type.
func (t PRType) Valid() bool {
	for _, known := range PRTypes {
		if t == known {
			return true
		}
	}
	return false
}

// TargetReps returns the exact rep count for rep-specific types (3RM, 5RM, 8RM).
func (t PRType) TargetReps() (int, bool) {
	switch t {
	case PRType3RM:
		return 3, true
	case PRType5RM:
		return 5, true
	case PRType8RM:
		return 8, true
	}
	return 0, false
}

// CarriesSet reports whether records of this type store the weight and reps
// of the set that produced them.
func (t PRType) CarriesSet() bool {
	switch t {
	case PRTypeWeightReps, PRType3RM, PRType5RM, PRType8RM:
		return true
	}
	return false
}

// PRRecord is an immutable personal record entry.
type PRRecord struct {
	ID           uuid.UUID  `json:"id"`
	UserID       string     `json:"user_id"`
	ExerciseName string     `json:"exercise_name"`
	PRType       PRType     `json:"pr_type"`
	Value        float64    `json:"value"`
	WeightKg     *float64   `json:"weight,omitempty"`
	Reps         *int       `json:"reps,omitempty"`
	Date         time.Time  `json:"date"`
	WorkoutID    *uuid.UUID `json:"workout_id,omitempty"`
	PreviousBest *float64   `json:"previous_best,omitempty"`
	Improvement  *float64   `json:"improvement,omitempty"`
}

// Recommendation is the next target suggested after a new record.
type Recommendation struct {
	NextTarget float64   `json:"next_target"`
	Increment  float64   `json:"increment"`
	Message    string    `json:"message"`
	TargetDate time.Time `json:"target_date"`
}

// Category groups PR types for display.
type Category string

const (
	CategoryMaxStrength Category = "max_strength"
	CategoryEndurance   Category = "endurance"
	CategoryVolume      Category = "volume"
)

// MuscleGroup is the display grouping of an exercise.
type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "胸"
	MuscleGroupBack      MuscleGroup = "背中"
	MuscleGroupLegs      MuscleGroup = "脚"
	MuscleGroupArms      MuscleGroup = "腕"
	MuscleGroupShoulders MuscleGroup = "肩"
	MuscleGroupCardio    MuscleGroup = "有酸素"
	MuscleGroupOther     MuscleGroup = "その他"
)

// PRKey identifies the record series a comparison is serialised on.
type PRKey struct {
	UserID       string
	ExerciseName string
	Type         PRType
}

// String renders the key as "user/exercise/type".
func (k PRKey) String() string {
	return k.UserID + "/" + k.ExerciseName + "/" + string(k.Type)
}

// PRFilter narrows a record listing. Empty fields match everything.
type PRFilter struct {
	Exercise string
	Type     PRType
}
