package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/records"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertWorkoutPost stores a post and its per-exercise index rows in one
// transaction.
func (db *DB) InsertWorkoutPost(ctx context.Context, post *models.WorkoutPost) error {
	exercises, err := json.Marshal(post.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}

	return pgx.BeginFunc(ctx, db.q(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO workout_posts (id, user_id, exercises, duration_min, comment, photos,
			 likes, liked_by, comments, created_at, record_date)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			post.ID, post.UserID, exercises, post.DurationMin, post.Comment, nonNil(post.Photos),
			post.Likes, nonNil(post.LikedBy), post.Comments, post.CreatedAt, post.RecordDate)
		if err != nil {
			return fmt.Errorf("inserting workout post: %w", err)
		}

		trainedAt := post.TrainingDate()
		for i, ex := range post.Exercises {
			if ex.Name == "" {
				continue
			}
			var volume float64
			for _, s := range ex.Sets {
				volume += records.Volume(s.WeightKg, s.Reps)
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO workout_exercises (post_id, position, user_id, name, trained_at, set_count, volume)
				 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				post.ID, i, post.UserID, ex.Name, trainedAt, len(ex.Sets), volume)
			if err != nil {
				return fmt.Errorf("inserting exercise %q: %w", ex.Name, err)
			}
		}
		return nil
	})
}

// GetWorkoutPost returns a post by ID, or ErrNotFound.
func (db *DB) GetWorkoutPost(ctx context.Context, id uuid.UUID) (*models.WorkoutPost, error) {
	var p models.WorkoutPost
	var exercises []byte
	err := db.q().QueryRow(ctx,
		`SELECT id, user_id, exercises, duration_min, comment, photos, likes, liked_by,
		 comments, created_at, record_date
		 FROM workout_posts WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &exercises, &p.DurationMin, &p.Comment, &p.Photos,
		&p.Likes, &p.LikedBy, &p.Comments, &p.CreatedAt, &p.RecordDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout post %s: %w", id, err)
	}
	if err := json.Unmarshal(exercises, &p.Exercises); err != nil {
		return nil, fmt.Errorf("decoding exercises of %s: %w", id, err)
	}
	return &p, nil
}

// DeleteWorkoutPost removes a post together with every record it produced and
// returns how many records went with it.
func (db *DB) DeleteWorkoutPost(ctx context.Context, id uuid.UUID) (int64, error) {
	var deleted int64
	err := pgx.BeginFunc(ctx, db.q(), func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM personal_records WHERE workout_id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting records of %s: %w", id, err)
		}
		deleted = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM workout_posts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting workout post %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// TrainingDates returns the training date of every post containing the exercise.
func (db *DB) TrainingDates(ctx context.Context, userID, exercise string) ([]time.Time, error) {
	rows, err := db.q().Query(ctx,
		`SELECT trained_at FROM workout_exercises
		 WHERE user_id = $1 AND name = $2
		 ORDER BY trained_at`,
		userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("querying training dates: %w", err)
	}
	dates, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("scanning training dates: %w", err)
	}
	return dates, nil
}

// LastTrainingDate returns the most recent training date of the exercise, or
// nil when it was never trained.
func (db *DB) LastTrainingDate(ctx context.Context, userID, exercise string) (*time.Time, error) {
	var last *time.Time
	err := db.q().QueryRow(ctx,
		`SELECT MAX(trained_at) FROM workout_exercises WHERE user_id = $1 AND name = $2`,
		userID, exercise,
	).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("querying last training date: %w", err)
	}
	return last, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
