package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/jackc/pgx/v5"
)

// TrainingAnalytics returns the stored aggregate for one exercise, or nil.
func (db *DB) TrainingAnalytics(ctx context.Context, userID, exercise string) (*models.TrainingAnalytics, error) {
	var a models.TrainingAnalytics
	err := db.q().QueryRow(ctx,
		`SELECT user_id, exercise_name, average_frequency, last_updated
		 FROM training_analytics WHERE user_id = $1 AND exercise_name = $2`,
		userID, exercise,
	).Scan(&a.UserID, &a.ExerciseName, &a.AverageFrequency, &a.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying training analytics: %w", err)
	}
	return &a, nil
}

// ListTrainingAnalytics returns every stored aggregate of a user.
func (db *DB) ListTrainingAnalytics(ctx context.Context, userID string) ([]models.TrainingAnalytics, error) {
	rows, err := db.q().Query(ctx,
		`SELECT user_id, exercise_name, average_frequency, last_updated
		 FROM training_analytics WHERE user_id = $1
		 ORDER BY exercise_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying training analytics: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingAnalytics
	for rows.Next() {
		var a models.TrainingAnalytics
		if err := rows.Scan(&a.UserID, &a.ExerciseName, &a.AverageFrequency, &a.LastUpdated); err != nil {
			return nil, fmt.Errorf("scanning training analytics: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// SaveTrainingAnalytics upserts the aggregate; the last write wins.
func (db *DB) SaveTrainingAnalytics(ctx context.Context, a *models.TrainingAnalytics) error {
	_, err := db.q().Exec(ctx,
		`INSERT INTO training_analytics (user_id, exercise_name, average_frequency, last_updated)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id, exercise_name)
		 DO UPDATE SET average_frequency = EXCLUDED.average_frequency, last_updated = EXCLUDED.last_updated`,
		a.UserID, a.ExerciseName, a.AverageFrequency, a.LastUpdated)
	if err != nil {
		return fmt.Errorf("saving training analytics: %w", err)
	}
	return nil
}

// DeleteTrainingAnalytics removes the aggregate for one exercise, if any.
func (db *DB) DeleteTrainingAnalytics(ctx context.Context, userID, exercise string) error {
	_, err := db.q().Exec(ctx,
		`DELETE FROM training_analytics WHERE user_id = $1 AND exercise_name = $2`,
		userID, exercise)
	if err != nil {
		return fmt.Errorf("deleting training analytics: %w", err)
	}
	return nil
}

// ListUsersWithAnalytics returns every user with at least one aggregate.
func (db *DB) ListUsersWithAnalytics(ctx context.Context) ([]string, error) {
	rows, err := db.q().Query(ctx,
		`SELECT DISTINCT user_id FROM training_analytics ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("querying analytics users: %w", err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning analytics users: %w", err)
	}
	return users, nil
}
