// Package workouts orchestrates posting and deleting workouts: storage, PR
// detection, recommendations and the analytics trigger.
package workouts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/HIkaru827/musclegram/internal/analytics"
	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/records"
	"github.com/HIkaru827/musclegram/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the workout does not exist.
	ErrNotFound = errors.New("workout not found")
	// ErrForbidden is returned when a user acts on another user's workout.
	ErrForbidden = errors.New("workout belongs to another user")
	// ErrInvalid is returned for a workout that cannot be stored.
	ErrInvalid = errors.New("invalid workout")
)

// Store is everything the service needs from a storage backend.
type Store interface {
	records.Store
	analytics.Store

	InsertWorkoutPost(ctx context.Context, post *models.WorkoutPost) error
	GetWorkoutPost(ctx context.Context, id uuid.UUID) (*models.WorkoutPost, error)
	DeleteWorkoutPost(ctx context.Context, id uuid.UUID) (int64, error)

	UserPRs(ctx context.Context, userID string, f models.PRFilter) ([]models.PRRecord, error)
	WeeklyPRs(ctx context.Context, userID string, now time.Time) ([]models.PRRecord, error)
	PRTrend(ctx context.Context, userID, exercise string, prType models.PRType, limit int) ([]models.PRRecord, error)
	LastTrainingDate(ctx context.Context, userID, exercise string) (*time.Time, error)
	GetDataStats(ctx context.Context, userID string) (*models.DataStats, error)
}

// NewRecord is a record created by a post, with its follow-up target and
// display grouping.
type NewRecord struct {
	Record         models.PRRecord       `json:"record"`
	Recommendation models.Recommendation `json:"recommendation"`
	Category       models.Category       `json:"category"`
	MuscleGroup    models.MuscleGroup    `json:"muscle_group"`
}

// PostResult is the outcome of posting a workout. Errors lists comparisons
// that were skipped; the post itself is stored regardless.
type PostResult struct {
	Post       *models.WorkoutPost `json:"post"`
	NewRecords []NewRecord         `json:"new_records"`
	Errors     []string            `json:"errors,omitempty"`
}

// Service posts and deletes workouts and serves record queries.
type Service struct {
	store    Store
	detector *records.Detector
	tracker  *analytics.Tracker
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a Service.
func NewService(store Store, detector *records.Detector, tracker *analytics.Tracker, log *slog.Logger) *Service {
	return &Service{store: store, detector: detector, tracker: tracker, log: log, now: time.Now}
}

// Post stores a workout, detects new personal records and refreshes the
// training analytics of its exercises. Comparison and analytics failures do
// not fail the post.
func (s *Service) Post(ctx context.Context, post *models.WorkoutPost) (*PostResult, error) {
	if err := validate(post); err != nil {
		return nil, err
	}
	now := s.now()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}

	if err := s.store.InsertWorkoutPost(ctx, post); err != nil {
		return nil, fmt.Errorf("storing workout: %w", err)
	}

	result := &PostResult{Post: post, NewRecords: []NewRecord{}}
	created, err := s.detector.Detect(ctx, post)
	if err != nil {
		s.log.Warn("some record comparisons were skipped", "post", post.ID, "error", err)
		result.Errors = splitErrors(err)
	}
	for _, rec := range created {
		group, _ := records.MuscleGroupOf(rec.ExerciseName)
		result.NewRecords = append(result.NewRecords, NewRecord{
			Record:         rec,
			Recommendation: records.Recommend(rec, now),
			Category:       records.CategoryOf(rec.PRType),
			MuscleGroup:    group,
		})
	}

	if err := s.tracker.HandleWorkoutPosted(ctx, post); err != nil {
		s.log.Warn("training analytics update incomplete", "post", post.ID, "error", err)
	}

	s.log.Info("workout posted", "post", post.ID, "user", post.UserID,
		"exercises", len(post.Exercises), "new_records", len(result.NewRecords))
	return result, nil
}

// Delete removes a workout owned by userID along with the records it
// produced, and returns how many records were removed.
func (s *Service) Delete(ctx context.Context, userID string, postID uuid.UUID) (int64, error) {
	post, err := s.store.GetWorkoutPost(ctx, postID)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("loading workout: %w", err)
	}
	if post.UserID != userID {
		return 0, ErrForbidden
	}

	deleted, err := s.store.DeleteWorkoutPost(ctx, postID)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("deleting workout: %w", err)
	}

	// The remaining history may no longer support a frequency.
	if err := s.tracker.HandleWorkoutDeleted(ctx, post); err != nil {
		s.log.Warn("training analytics refresh after delete incomplete", "post", postID, "error", err)
	}
	s.log.Info("workout deleted", "post", postID, "user", userID, "records_deleted", deleted)
	return deleted, nil
}

// Get returns a workout by ID.
func (s *Service) Get(ctx context.Context, postID uuid.UUID) (*models.WorkoutPost, error) {
	post, err := s.store.GetWorkoutPost(ctx, postID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading workout: %w", err)
	}
	return post, nil
}

func validate(post *models.WorkoutPost) error {
	if post == nil {
		return fmt.Errorf("%w: empty body", ErrInvalid)
	}
	if post.UserID == "" {
		return fmt.Errorf("%w: missing user", ErrInvalid)
	}
	if len(post.Exercises) == 0 {
		return fmt.Errorf("%w: no exercises", ErrInvalid)
	}
	for i, ex := range post.Exercises {
		if ex.Name == "" {
			return fmt.Errorf("%w: exercise %d has no name", ErrInvalid, i)
		}
	}
	return nil
}

// splitErrors flattens a joined error into its messages.
func splitErrors(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
