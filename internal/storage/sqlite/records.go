package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/google/uuid"
)

const prColumns = `id, user_id, exercise_name, pr_type, value, weight_kg, reps, date,
	workout_id, previous_best, improvement`

type scanner interface {
	Scan(dest ...any) error
}

// BestPR returns the highest-valued record of a series, or nil when the
// series is empty. Ties go to the earliest record.
func (db *DB) BestPR(ctx context.Context, key models.PRKey) (*models.PRRecord, error) {
	row := db.q().QueryRowContext(ctx,
		`SELECT `+prColumns+`
		 FROM personal_records
		 WHERE user_id = ? AND exercise_name = ? AND pr_type = ?
		 ORDER BY value DESC, date ASC
		 LIMIT 1`,
		key.UserID, key.ExerciseName, string(key.Type))

	rec, err := scanPR(row)
	if errors.Is(err, sql.ErrNoRows) {
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
	now := time.Now()
	if rec.Date.IsZero() {
		rec.Date = now
	}
	_, err := db.q().ExecContext(ctx,
		`INSERT INTO personal_records (`+prColumns+`, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID.String(), rec.UserID, rec.ExerciseName, string(rec.PRType), rec.Value,
		rec.WeightKg, rec.Reps, toUnix(rec.Date), rec.WorkoutID, rec.PreviousBest, rec.Improvement,
		toUnix(now))
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// UserPRs lists a user's records, newest first.
func (db *DB) UserPRs(ctx context.Context, userID string, f models.PRFilter) ([]models.PRRecord, error) {
	rows, err := db.q().QueryContext(ctx,
		`SELECT `+prColumns+`
		 FROM personal_records
		 WHERE user_id = ?
		   AND (? = '' OR exercise_name = ?)
		   AND (? = '' OR pr_type = ?)
		 ORDER BY date DESC, created_at DESC`,
		userID, f.Exercise, f.Exercise, string(f.Type), string(f.Type))
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	return collectPRs(rows)
}

// WeeklyPRs lists the records dated within the 7 days before now, newest first.
func (db *DB) WeeklyPRs(ctx context.Context, userID string, now time.Time) ([]models.PRRecord, error) {
	rows, err := db.q().QueryContext(ctx,
		`SELECT `+prColumns+`
		 FROM personal_records
		 WHERE user_id = ? AND date >= ? AND date <= ?
		 ORDER BY date DESC, created_at DESC`,
		userID, toUnix(now.AddDate(0, 0, -7)), toUnix(now))
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
	rows, err := db.q().QueryContext(ctx,
		`SELECT `+prColumns+`
		 FROM personal_records
		 WHERE user_id = ? AND exercise_name = ? AND pr_type = ?
		 ORDER BY date DESC, created_at DESC
		 LIMIT ?`,
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

func scanPR(row scanner) (*models.PRRecord, error) {
	var r models.PRRecord
	var prType string
	var date int64
	if err := row.Scan(&r.ID, &r.UserID, &r.ExerciseName, &prType, &r.Value,
		&r.WeightKg, &r.Reps, &date, &r.WorkoutID, &r.PreviousBest, &r.Improvement); err != nil {
		return nil, err
	}
	r.PRType = models.PRType(prType)
	r.Date = fromUnix(date)
	return &r, nil
}

func collectPRs(rows *sql.Rows) ([]models.PRRecord, error) {
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
