package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const prColumns = `id, user_id, exercise_name, pr_type, value, weight_kg, reps, date,
	workout_id, previous_best, improvement`

// BestPR returns the highest-valued record of a series, or nil when the
// series is empty. Ties go to the earliest record.
func (db *DB) BestPR(ctx context.Context, key models.PRKey) (*models.PRRecord, error) {
	row := db.q().QueryRow(ctx,
		`SELECT `+prColumns+`
		 FROM personal_records
		 WHERE user_id = $1 AND exercise_name = $2 AND pr_type = $3
		 ORDER BY value DESC, date ASC
		 LIMIT 1`,
		key.UserID, key.ExerciseName, string(key.Type))

	rec, err := scanPR(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying best record: %w", err)
	}
	return rec, nil
}

// SavePR inserts a record, assigning an ID and date when unset.
func (db *DB) SavePR(ctx context.Context, rec *models.PRRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now()
	}
	_, err := db.q().Exec(ctx,
		`INSERT INTO personal_records (`+prColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rec.ID, rec.UserID, rec.ExerciseName, string(rec.PRType), rec.Value,
		rec.WeightKg, rec.Reps, rec.Date, rec.WorkoutID, rec.PreviousBest, rec.Improvement)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// UserPRs lists a user's records, newest first.
func (db *DB) UserPRs(ctx context.Context, userID string, f models.PRFilter) ([]models.PRRecord, error) {
	rows, err := db.q().Query(ctx,
		`SELECT `+prColumns+`
		 FROM personal_records
		 WHERE user_id = $1
		   AND ($2 = '' OR exercise_name = $2)
		   AND ($3 = '' OR pr_type = $3)
		 ORDER BY date DESC, created_at DESC`,
		userID, f.Exercise, string(f.Type))
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	return collectPRs(rows)
}

// WeeklyPRs lists the records dated within the 7 days before now, newest first.
func (db *DB) WeeklyPRs(ctx context.Context, userID string, now time.Time) ([]models.PRRecord, error) {
	rows, err := db.q().Query(ctx,
		`SELECT `+prColumns+`
		 FROM personal_records
		 WHERE user_id = $1 AND date >= $2 AND date <= $3
		 ORDER BY date DESC, created_at DESC`,
		userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, fmt.Errorf("querying weekly records: %w", err)
	}
	return collectPRs(rows)
}

// PRTrend returns the latest limit records of a series in chronological order.
func (db *DB) PRTrend(ctx context.Context, userID, exercise string, prType models.PRType, limit int) ([]models.PRRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.q().Query(ctx,
		`SELECT `+prColumns+`
		 FROM personal_records
		 WHERE user_id = $1 AND exercise_name = $2 AND pr_type = $3
		 ORDER BY date DESC, created_at DESC
		 LIMIT $4`,
		userID, exercise, string(prType), limit)
	if err != nil {
		return nil, fmt.Errorf("querying record trend: %w", err)
	}
	recs, err := collectPRs(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(recs)
	return recs, nil
}

func scanPR(row pgx.Row) (*models.PRRecord, error) {
	var r models.PRRecord
	var prType string
	if err := row.Scan(&r.ID, &r.UserID, &r.ExerciseName, &prType, &r.Value,
		&r.WeightKg, &r.Reps, &r.Date, &r.WorkoutID, &r.PreviousBest, &r.Improvement); err != nil {
		return nil, err
	}
	r.PRType = models.PRType(prType)
	return &r, nil
}

func collectPRs(rows pgx.Rows) ([]models.PRRecord, error) {
	defer rows.Close()

	var result []models.PRRecord
	for rows.Next() {
		r, err := scanPR(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}
