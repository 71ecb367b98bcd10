package models

import (
	"time"

	"github.com/google/uuid"
)

// Set is a single logged set within an exercise.
type Set struct {
	WeightKg float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

// WorkoutExercise is one exercise entry of a workout post.
type WorkoutExercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sets []Set  `json:"sets"`
}

// WorkoutPost is a user's logged training session as shared in the feed.
type WorkoutPost struct {
	ID          uuid.UUID         `json:"id"`
	UserID      string            `json:"user_id"`
	Exercises   []WorkoutExercise `json:"exercises"`
	DurationMin int               `json:"duration"`
	Comment     string            `json:"comment"`
	Photos      []string          `json:"photos"`
	Likes       int               `json:"likes"`
	LikedBy     []string          `json:"liked_by"`
	Comments    int               `json:"comments"`
	CreatedAt   time.Time         `json:"created_at"`
	RecordDate  *time.Time        `json:"record_date,omitempty"`
}

// TrainingDate is the day the session happened: RecordDate when the post was
// back-dated, otherwise CreatedAt.
func (p *WorkoutPost) TrainingDate() time.Time {
	if p.RecordDate != nil && !p.RecordDate.IsZero() {
		return *p.RecordDate
	}
	return p.CreatedAt
}

// ExerciseNames returns the distinct exercise names of the post in order of
// first appearance.
func (p *WorkoutPost) ExerciseNames() []string {
	seen := make(map[string]bool, len(p.Exercises))
	var names []string
	for _, ex := range p.Exercises {
		if ex.Name == "" || seen[ex.Name] {
			continue
		}
		seen[ex.Name] = true
		names = append(names, ex.Name)
	}
	return names
}
