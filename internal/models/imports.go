package models

import (
	"encoding/json"
	"time"
)

// ImportLog represents a single import operation's outcome.
type ImportLog struct {
	ID               int64            `json:"id"`
	UserID           string           `json:"user_id"`
	CreatedAt        time.Time        `json:"created_at"`
	Source           string           `json:"source"`
	Status           string           `json:"status"`
	SessionsReceived int              `json:"sessions_received"`
	PostsCreated     int              `json:"posts_created"`
	PostsSkipped     int              `json:"posts_skipped"`
	RecordsCreated   int              `json:"records_created"`
	DurationMs       *int             `json:"duration_ms"`
	ErrorMessage     *string          `json:"error_message"`
	Metadata         *json.RawMessage `json:"metadata"`
}

// DataStats holds aggregate statistics about a user's stored data.
type DataStats struct {
	TotalPosts       int64            `json:"total_posts"`
	TotalRecords     int64            `json:"total_records"`
	TrackedExercises int64            `json:"tracked_exercises"`
	EarliestTraining *time.Time       `json:"earliest_training"`
	LatestTraining   *time.Time       `json:"latest_training"`
	RecordsByType    []RecordTypeStat `json:"records_by_type"`
}

// RecordTypeStat counts records of one PR type.
type RecordTypeStat struct {
	PRType PRType  `json:"pr_type"`
	Count  int64   `json:"count"`
	Best   float64 `json:"best"`
}
