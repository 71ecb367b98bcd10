package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HIkaru827/musclegram/internal/models"
)

// TrainingAnalytics returns the stored aggregate for one exercise, or nil.
func (db *DB) TrainingAnalytics(ctx context.Context, userID, exercise string) (*models.TrainingAnalytics, error) {
	var a models.TrainingAnalytics
	var updated int64
	err := db.q().QueryRowContext(ctx,
		`SELECT user_id, exercise_name, average_frequency, last_updated
		 FROM training_analytics WHERE user_id = ? AND exercise_name = ?`,
		userID, exercise,
	).Scan(&a.UserID, &a.ExerciseName, &a.AverageFrequency, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying training analytics: %w", err)
	}
	a.LastUpdated = fromUnix(updated)
	return &a, nil
}

// ListTrainingAnalytics returns every stored aggregate of a user.
func (db *DB) ListTrainingAnalytics(ctx context.Context, userID string) ([]models.TrainingAnalytics, error) {
	rows, err := db.q().QueryContext(ctx,
		`SELECT user_id, exercise_name, average_frequency, last_updated
		 FROM training_analytics WHERE user_id = ?
		 ORDER BY exercise_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying training analytics: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingAnalytics
	for rows.Next() {
		var a models.TrainingAnalytics
		var updated int64
		if err := rows.Scan(&a.UserID, &a.ExerciseName, &a.AverageFrequency, &updated); err != nil {
			return nil, fmt.Errorf("scanning training analytics: %w", err)
		}
		a.LastUpdated = fromUnix(updated)
		result = append(result, a)
	}
	return result, rows.Err()
}

// SaveTrainingAnalytics upserts the aggregate; the last write wins.
func (db *DB) SaveTrainingAnalytics(ctx context.Context, a *models.TrainingAnalytics) error {
	_, err := db.q().ExecContext(ctx,
		`INSERT INTO training_analytics (user_id, exercise_name, average_frequency, last_updated)
		 VALUES (?,?,?,?)
		 ON CONFLICT (user_id, exercise_name)
		 DO UPDATE SET average_frequency = excluded.average_frequency, last_updated = excluded.last_updated`,
		a.UserID, a.ExerciseName, a.AverageFrequency, toUnix(a.LastUpdated))
	if err != nil {
		return fmt.Errorf("saving training analytics: %w", err)
	}
	return nil
}

// DeleteTrainingAnalytics removes the aggregate for one exercise, if any.
func (db *DB) DeleteTrainingAnalytics(ctx context.Context, userID, exercise string) error {
	_, err := db.q().ExecContext(ctx,
		`DELETE FROM training_analytics WHERE user_id = ? AND exercise_name = ?`,
		userID, exercise)
	if err != nil {
		return fmt.Errorf("deleting training analytics: %w", err)
	}
	return nil
}

// ListUsersWithAnalytics returns every user with at least one aggregate.
func (db *DB) ListUsersWithAnalytics(ctx context.Context) ([]string, error) {
	rows, err := db.q().QueryContext(ctx,
		`SELECT DISTINCT user_id FROM training_analytics ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("querying analytics users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scanning analytics user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
