package models

import (
	"fmt"
	"strings"
	"time"
)

// AlphaSession is one session parsed from an Alpha Progression CSV export.
type AlphaSession struct {
	Name      string
	Date      time.Time
	Duration  string
	Exercises []AlphaExercise
}

// AlphaExercise is a single exercise within a session.
type AlphaExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []AlphaSet
}

// AlphaSet is a single set (working or warmup).
type AlphaSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}

// ToWorkoutPost converts the session into a workout post for userID.
// Warmup sets are dropped; exercises left without working sets are skipped.
func (s AlphaSession) ToWorkoutPost(userID string) WorkoutPost {
	date := s.Date
	post := WorkoutPost{
		UserID:      userID,
		Comment:     s.Name,
		DurationMin: parseAlphaDuration(s.Duration),
		RecordDate:  &date,
	}
	for _, ex := range s.Exercises {
		var sets []Set
		for _, set := range ex.Sets {
			if set.IsWarmup {
				continue
			}
			sets = append(sets, Set{WeightKg: set.WeightKg, Reps: set.Reps})
		}
		if len(sets) == 0 {
			continue
		}
		post.Exercises = append(post.Exercises, WorkoutExercise{
			ID:   fmt.Sprintf("alpha-%d", ex.Number),
			Name: ex.Name,
			Sets: sets,
		})
	}
	return post
}

// parseAlphaDuration turns "1:02 hr" or "45 min" into minutes. Unknown
// formats yield 0.
func parseAlphaDuration(s string) int {
	s = strings.TrimSpace(s)
	var h, m int
	if strings.HasSuffix(s, "hr") {
		if _, err := fmt.Sscanf(strings.TrimSpace(strings.TrimSuffix(s, "hr")), "%d:%d", &h, &m); err == nil {
			return h*60 + m
		}
		return 0
	}
	if strings.HasSuffix(s, "min") {
		if _, err := fmt.Sscanf(strings.TrimSpace(strings.TrimSuffix(s, "min")), "%d", &m); err == nil {
			return m
		}
	}
	return 0
}
