package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/HIkaru827/musclegram/internal/metrics"
	"github.com/HIkaru827/musclegram/internal/models"
)

// Store is the storage contract of the analytics tracker.
type Store interface {
	// TrainingDates returns the training date of every post containing the
	// exercise, in no particular order.
	TrainingDates(ctx context.Context, userID, exercise string) ([]time.Time, error)
	// TrainingAnalytics returns the stored aggregate, or nil when absent.
	TrainingAnalytics(ctx context.Context, userID, exercise string) (*models.TrainingAnalytics, error)
	ListTrainingAnalytics(ctx context.Context, userID string) ([]models.TrainingAnalytics, error)
	SaveTrainingAnalytics(ctx context.Context, a *models.TrainingAnalytics) error
	// DeleteTrainingAnalytics removes the stored aggregate. Removing an absent
	// row is not an error.
	DeleteTrainingAnalytics(ctx context.Context, userID, exercise string) error
}

// Tracker maintains the per-exercise training analytics aggregate and
// projects next-session recommendations from it.
type Tracker struct {
	store   Store
	loc     *time.Location
	metrics *metrics.Manager
	log     *slog.Logger
	now     func() time.Time
}

// NewTracker creates a Tracker. Calendar days are taken in loc; nil means UTC.
func NewTracker(store Store, loc *time.Location, m *metrics.Manager, log *slog.Logger) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{store: store, loc: loc, metrics: m, log: log, now: time.Now}
}

// Location returns the time zone calendar days are computed in.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Recompute rebuilds the aggregate for one exercise from the full training
// history and stores it. With fewer than two distinct days nothing is stored
// and nil is returned.
func (t *Tracker) Recompute(ctx context.Context, userID, exercise string) (*models.TrainingAnalytics, error) {
	return t.recompute(ctx, userID, exercise, false)
}

// recompute drops the stored aggregate on insufficient history when
// dropStale is set.
func (t *Tracker) recompute(ctx context.Context, userID, exercise string, dropStale bool) (*models.TrainingAnalytics, error) {
	times, err := t.store.TrainingDates(ctx, userID, exercise)
	if err != nil {
		t.metrics.AnalyticsRecomputed("failed")
		return nil, fmt.Errorf("loading training dates: %w", err)
	}

	avg, ok := AverageFrequency(DistinctDays(times, t.loc))
	if !ok {
		if dropStale {
			if err := t.store.DeleteTrainingAnalytics(ctx, userID, exercise); err != nil {
				t.metrics.AnalyticsRecomputed("failed")
				return nil, fmt.Errorf("deleting training analytics: %w", err)
			}
			t.metrics.AnalyticsRecomputed("removed")
			return nil, nil
		}
		t.metrics.AnalyticsRecomputed("insufficient")
		return nil, nil
	}

	a := &models.TrainingAnalytics{
		UserID:           userID,
		ExerciseName:     exercise,
		AverageFrequency: avg,
		LastUpdated:      t.now(),
	}
	if err := t.store.SaveTrainingAnalytics(ctx, a); err != nil {
		t.metrics.AnalyticsRecomputed("failed")
		return nil, fmt.Errorf("saving training analytics: %w", err)
	}
	t.metrics.AnalyticsRecomputed("updated")
	return a, nil
}

// HandleWorkoutPosted recomputes every exercise of a new post. Exercises are
// processed independently; failures are joined into the returned error.
func (t *Tracker) HandleWorkoutPosted(ctx context.Context, post *models.WorkoutPost) error {
	return t.recomputePost(ctx, post, false)
}

// HandleWorkoutDeleted recomputes every exercise of a deleted post from the
// remaining history. An exercise left with fewer than MinDaysForFrequency
// training days loses its stored aggregate.
func (t *Tracker) HandleWorkoutDeleted(ctx context.Context, post *models.WorkoutPost) error {
	return t.recomputePost(ctx, post, true)
}

func (t *Tracker) recomputePost(ctx context.Context, post *models.WorkoutPost, dropStale bool) error {
	var errs []error
	for _, name := range post.ExerciseNames() {
		if _, err := t.recompute(ctx, post.UserID, name, dropStale); err != nil {
			t.log.Warn("training analytics recompute failed",
				"user", post.UserID, "exercise", name, "error", err)
			errs = append(errs, fmt.Errorf("recomputing %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Recommendation projects the next session for a single exercise. It returns
// nil when the exercise has no stored analytics.
func (t *Tracker) Recommendation(ctx context.Context, userID, exercise string) (*models.NextRecommendation, error) {
	a, err := t.store.TrainingAnalytics(ctx, userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("loading training analytics: %w", err)
	}
	if a == nil {
		return nil, nil
	}
	return t.project(ctx, *a)
}

// Recommendations projects every stored exercise of the user and returns the
// result sorted by urgency. An exercise whose history cannot be loaded is
// logged and left out.
func (t *Tracker) Recommendations(ctx context.Context, userID string) ([]models.NextRecommendation, error) {
	rows, err := t.store.ListTrainingAnalytics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing training analytics: %w", err)
	}

	recs := make([]models.NextRecommendation, 0, len(rows))
	for _, a := range rows {
		rec, err := t.project(ctx, a)
		if err != nil {
			t.log.Warn("recommendation skipped",
				"user", userID, "exercise", a.ExerciseName, "error", err)
			continue
		}
		if rec != nil {
			recs = append(recs, *rec)
		}
	}
	SortByUrgency(recs)
	return recs, nil
}

// project returns nil when the exercise no longer has any training day, which
// happens after its posts are deleted.
func (t *Tracker) project(ctx context.Context, a models.TrainingAnalytics) (*models.NextRecommendation, error) {
	times, err := t.store.TrainingDates(ctx, a.UserID, a.ExerciseName)
	if err != nil {
		return nil, fmt.Errorf("loading training dates for %s: %w", a.ExerciseName, err)
	}
	days := DistinctDays(times, t.loc)
	if len(days) == 0 {
		return nil, nil
	}
	rec := Project(a, days, t.now(), t.loc)
	return &rec, nil
}
