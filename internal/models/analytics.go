package models

import "time"

// TrainingAnalytics is the per-user, per-exercise training frequency aggregate.
type TrainingAnalytics struct {
	UserID           string    `json:"user_id"`
	ExerciseName     string    `json:"exercise_name"`
	AverageFrequency float64   `json:"average_frequency"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Consistency rates how regular the intervals between sessions are.
type Consistency string

const (
	ConsistencyHigh   Consistency = "high"
	ConsistencyMedium Consistency = "medium"
	ConsistencyLow    Consistency = "low"
)

// TrainingStatus says where today falls relative to the next recommended session.
type TrainingStatus string

const (
	StatusOverdue TrainingStatus = "overdue"
	StatusDueSoon TrainingStatus = "due_soon"
	StatusOnTrack TrainingStatus = "on_track"
	StatusAhead   TrainingStatus = "ahead"
)

// NextRecommendation is derived on read from analytics and training history.
type NextRecommendation struct {
	ExerciseName        string         `json:"exercise_name"`
	NextRecommendedDate time.Time      `json:"next_recommended_date"`
	DaysUntilNext       int            `json:"days_until_next"`
	AverageFrequency    float64        `json:"average_frequency"`
	LastTrainingDate    time.Time      `json:"last_training_date"`
	Consistency         Consistency    `json:"consistency"`
	Status              TrainingStatus `json:"status"`
}
