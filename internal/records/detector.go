package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/HIkaru827/musclegram/internal/metrics"
	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Store is the storage contract of the PR comparator.
type Store interface {
	// BestPR returns the current best record for the key, or nil when the
	// series is empty.
	BestPR(ctx context.Context, key models.PRKey) (*models.PRRecord, error)
	// SavePR persists a new record, filling ID and Date when unset.
	SavePR(ctx context.Context, rec *models.PRRecord) error
	// WithPRLock runs fn in a transaction serialised on key. The Store handed
	// to fn is bound to that transaction.
	WithPRLock(ctx context.Context, key models.PRKey, fn func(ctx context.Context, tx Store) error) error
}

// DefaultConcurrency bounds concurrent comparisons for one post.
const DefaultConcurrency = 4

// Detector compares a workout's candidates against stored bests and creates
// new records.
type Detector struct {
	store       Store
	log         *slog.Logger
	metrics     *metrics.Manager
	concurrency int
	now         func() time.Time
}

// NewDetector creates a Detector. concurrency <= 0 uses DefaultConcurrency.
func NewDetector(store Store, m *metrics.Manager, concurrency int, log *slog.Logger) *Detector {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Detector{store: store, log: log, metrics: m, concurrency: concurrency, now: time.Now}
}

// Detect runs every comparison for a stored post and returns the records
// created, in candidate order. Comparisons are independent: a failed one is
// skipped and reported in the joined error while the others still run.
func (d *Detector) Detect(ctx context.Context, post *models.WorkoutPost) ([]models.PRRecord, error) {
	start := d.now()
	defer func() { d.metrics.ObserveDetect(time.Since(start).Seconds()) }()

	candidates := Candidates(post.Exercises)
	created := make([]*models.PRRecord, len(candidates))
	errs := make([]error, len(candidates))

	var workoutID *uuid.UUID
	if post.ID != uuid.Nil {
		id := post.ID
		workoutID = &id
	}
	date := post.TrainingDate()
	if date.IsZero() {
		date = start
	}

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			rec, err := d.compare(ctx, post.UserID, c, date, workoutID)
			if err != nil {
				errs[i] = fmt.Errorf("comparing %s %s: %w", c.ExerciseName, c.Type, err)
				return nil
			}
			created[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	var out []models.PRRecord
	for _, rec := range created {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out, errors.Join(errs...)
}

func (d *Detector) compare(ctx context.Context, userID string, c Candidate, date time.Time, workoutID *uuid.UUID) (*models.PRRecord, error) {
	key := c.Key(userID)
	var created *models.PRRecord

	err := d.store.WithPRLock(ctx, key, func(ctx context.Context, tx Store) error {
		prior, err := tx.BestPR(ctx, key)
		if err != nil {
			d.metrics.ComparisonSkipped("read_failed")
			d.log.Warn("previous best lookup failed, skipping comparison",
				"key", key.String(), "error", err)
			return fmt.Errorf("reading previous best: %w", err)
		}

		rec, ok := Evaluate(userID, c, prior, date, workoutID)
		if !ok {
			d.metrics.ComparisonSkipped("not_better")
			return nil
		}
		if err := tx.SavePR(ctx, rec); err != nil {
			d.metrics.ComparisonSkipped("write_failed")
			return fmt.Errorf("saving record: %w", err)
		}
		created = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		d.metrics.RecordCreated(string(created.PRType))
		d.log.Info("personal record created",
			"user", userID, "exercise", created.ExerciseName,
			"type", created.PRType, "value", created.Value)
	}
	return created, nil
}

// Evaluate applies the creation rule: a record is created when there is no
// prior record or the candidate strictly beats it. Improvement is the
// percentage over the prior value rounded to two decimals, 0 without a prior.
func Evaluate(userID string, c Candidate, prior *models.PRRecord, date time.Time, workoutID *uuid.UUID) (*models.PRRecord, bool) {
	if c.Value <= 0 {
		return nil, false
	}
	if prior != nil && c.Value <= prior.Value {
		return nil, false
	}

	rec := &models.PRRecord{
		UserID:       userID,
		ExerciseName: c.ExerciseName,
		PRType:       c.Type,
		Value:        c.Value,
		Date:         date,
		WorkoutID:    workoutID,
	}
	if c.Type.CarriesSet() {
		w, r := c.WeightKg, c.Reps
		rec.WeightKg = &w
		rec.Reps = &r
	}

	improvement := 0.0
	if prior != nil {
		prev := prior.Value
		rec.PreviousBest = &prev
		if prev > 0 {
			improvement = round((c.Value-prev)/prev*100, 2)
		}
	}
	rec.Improvement = &improvement
	return rec, true
}
