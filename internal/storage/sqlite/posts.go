package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/records"
	"github.com/HIkaru827/musclegram/internal/storage"
	"github.com/google/uuid"
)

// InsertWorkoutPost stores a post and its per-exercise index rows in one
// transaction.
func (db *DB) InsertWorkoutPost(ctx context.Context, post *models.WorkoutPost) error {
	exercises, err := json.Marshal(post.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	photos, err := json.Marshal(nonNil(post.Photos))
	if err != nil {
		return fmt.Errorf("encoding photos: %w", err)
	}
	likedBy, err := json.Marshal(nonNil(post.LikedBy))
	if err != nil {
		return fmt.Errorf("encoding liked_by: %w", err)
	}

	return db.inTx(ctx, func(tx *DB) error {
		_, err := tx.q().ExecContext(ctx,
			`INSERT INTO workout_posts (id, user_id, exercises, duration_min, comment, photos,
			 likes, liked_by, comments, created_at, record_date)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			post.ID.String(), post.UserID, string(exercises), post.DurationMin, post.Comment,
			string(photos), post.Likes, string(likedBy), post.Comments,
			toUnix(post.CreatedAt), toUnixPtr(post.RecordDate))
		if err != nil {
			return fmt.Errorf("inserting workout post: %w", err)
		}

		trainedAt := toUnix(post.TrainingDate())
		for i, ex := range post.Exercises {
			if ex.Name == "" {
				continue
			}
			var volume float64
			for _, s := range ex.Sets {
				volume += records.Volume(s.WeightKg, s.Reps)
			}
			_, err := tx.q().ExecContext(ctx,
				`INSERT INTO workout_exercises (post_id, position, user_id, name, trained_at, set_count, volume)
				 VALUES (?,?,?,?,?,?,?)`,
				post.ID.String(), i, post.UserID, ex.Name, trainedAt, len(ex.Sets), volume)
			if err != nil {
				return fmt.Errorf("inserting exercise %q: %w", ex.Name, err)
			}
		}
		return nil
	})
}

// GetWorkoutPost returns a post by ID, or storage.ErrNotFound.
func (db *DB) GetWorkoutPost(ctx context.Context, id uuid.UUID) (*models.WorkoutPost, error) {
	var p models.WorkoutPost
	var exercises, photos, likedBy string
	var createdAt int64
	var recordDate *int64
	err := db.q().QueryRowContext(ctx,
		`SELECT id, user_id, exercises, duration_min, comment, photos, likes, liked_by,
		 comments, created_at, record_date
		 FROM workout_posts WHERE id = ?`, id.String(),
	).Scan(&p.ID, &p.UserID, &exercises, &p.DurationMin, &p.Comment, &photos,
		&p.Likes, &likedBy, &p.Comments, &createdAt, &recordDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout post %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(exercises), &p.Exercises); err != nil {
		return nil, fmt.Errorf("decoding exercises of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(photos), &p.Photos); err != nil {
		return nil, fmt.Errorf("decoding photos of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(likedBy), &p.LikedBy); err != nil {
		return nil, fmt.Errorf("decoding liked_by of %s: %w", id, err)
	}
	p.CreatedAt = fromUnix(createdAt)
	p.RecordDate = fromUnixPtr(recordDate)
	return &p, nil
}

// DeleteWorkoutPost removes a post together with every record it produced and
// returns how many records went with it.
func (db *DB) DeleteWorkoutPost(ctx context.Context, id uuid.UUID) (int64, error) {
	var deleted int64
	err := db.inTx(ctx, func(tx *DB) error {
		res, err := tx.q().ExecContext(ctx, `DELETE FROM personal_records WHERE workout_id = ?`, id.String())
		if err != nil {
			return fmt.Errorf("deleting records of %s: %w", id, err)
		}
		if deleted, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("counting deleted records: %w", err)
		}

		if _, err := tx.q().ExecContext(ctx, `DELETE FROM workout_exercises WHERE post_id = ?`, id.String()); err != nil {
			return fmt.Errorf("deleting exercises of %s: %w", id, err)
		}
		res, err = tx.q().ExecContext(ctx, `DELETE FROM workout_posts WHERE id = ?`, id.String())
		if err != nil {
			return fmt.Errorf("deleting workout post %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return storage.ErrNotFound
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
	rows, err := db.q().QueryContext(ctx,
		`SELECT trained_at FROM workout_exercises
		 WHERE user_id = ? AND name = ?
		 ORDER BY trained_at`,
		userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("querying training dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var us int64
		if err := rows.Scan(&us); err != nil {
			return nil, fmt.Errorf("scanning training date: %w", err)
		}
		dates = append(dates, fromUnix(us))
	}
	return dates, rows.Err()
}

// LastTrainingDate returns the most recent training date of the exercise, or
// nil when it was never trained.
func (db *DB) LastTrainingDate(ctx context.Context, userID, exercise string) (*time.Time, error) {
	var last *int64
	err := db.q().QueryRowContext(ctx,
		`SELECT MAX(trained_at) FROM workout_exercises WHERE user_id = ? AND name = ?`,
		userID, exercise,
	).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("querying last training date: %w", err)
	}
	return fromUnixPtr(last), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
