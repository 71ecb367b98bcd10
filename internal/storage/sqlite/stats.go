package sqlite

import (
	"context"
	"fmt"

	"github.com/HIkaru827/musclegram/internal/models"
)

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID string) (*models.DataStats, error) {
	stats := &models.DataStats{}

	err := db.q().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workout_posts WHERE user_id = ?`, userID,
	).Scan(&stats.TotalPosts)
	if err != nil {
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	err = db.q().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM personal_records WHERE user_id = ?`, userID,
	).Scan(&stats.TotalRecords)
	if err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}

	var earliest, latest *int64
	err = db.q().QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT name), MIN(trained_at), MAX(trained_at)
		 FROM workout_exercises WHERE user_id = ?`, userID,
	).Scan(&stats.TrackedExercises, &earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("querying training range: %w", err)
	}
	stats.EarliestTraining = fromUnixPtr(earliest)
	stats.LatestTraining = fromUnixPtr(latest)

	rows, err := db.q().QueryContext(ctx,
		`SELECT pr_type, COUNT(*), MAX(value)
		 FROM personal_records
		 WHERE user_id = ?
		 GROUP BY pr_type
		 ORDER BY COUNT(*) DESC, pr_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying records by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.RecordTypeStat
		var prType string
		if err := rows.Scan(&prType, &s.Count, &s.Best); err != nil {
			return nil, fmt.Errorf("scanning record type stat: %w", err)
		}
		s.PRType = models.PRType(prType)
		stats.RecordsByType = append(stats.RecordsByType, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
