package workouts

import (
	"context"
	"fmt"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/records"
)

// PRs lists a user's records, newest first.
func (s *Service) PRs(ctx context.Context, userID string, f models.PRFilter) ([]models.PRRecord, error) {
	return s.store.UserPRs(ctx, userID, f)
}

// WeeklyPRs lists the records of the last 7 days.
func (s *Service) WeeklyPRs(ctx context.Context, userID string) ([]models.PRRecord, error) {
	return s.store.WeeklyPRs(ctx, userID, s.now())
}

// PRTrend returns up to limit records of one series, oldest first.
func (s *Service) PRTrend(ctx context.Context, userID, exercise string, prType models.PRType, limit int) ([]models.PRRecord, error) {
	return s.store.PRTrend(ctx, userID, exercise, prType, limit)
}

// GroupedPRs buckets the current best of every series by category and
// muscle group.
func (s *Service) GroupedPRs(ctx context.Context, userID string) (records.Grouped, error) {
	all, err := s.store.UserPRs(ctx, userID, models.PRFilter{})
	if err != nil {
		return records.Grouped{}, err
	}
	return records.GroupRecords(bestPerSeries(all)), nil
}

// bestPerSeries keeps the highest record of each (exercise, type), in the
// order the series first appear.
func bestPerSeries(recs []models.PRRecord) []models.PRRecord {
	index := make(map[models.PRKey]int)
	var out []models.PRRecord
	for _, r := range recs {
		k := models.PRKey{UserID: r.UserID, ExerciseName: r.ExerciseName, Type: r.PRType}
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, r)
			continue
		}
		if r.Value > out[i].Value {
			out[i] = r
		}
	}
	return out
}

// Recommendations returns next-session recommendations, most urgent first.
func (s *Service) Recommendations(ctx context.Context, userID string) ([]models.NextRecommendation, error) {
	return s.tracker.Recommendations(ctx, userID)
}

// AnalyticsView is the stored frequency aggregate of an exercise with its
// derived projection.
type AnalyticsView struct {
	Analytics        *models.TrainingAnalytics  `json:"analytics"`
	LastTrainingDate *time.Time                 `json:"last_training_date"`
	Recommendation   *models.NextRecommendation `json:"recommendation"`
}

// Analytics returns the analytics view of one exercise. Fields are nil when
// the exercise has too little history.
func (s *Service) Analytics(ctx context.Context, userID, exercise string) (*AnalyticsView, error) {
	a, err := s.store.TrainingAnalytics(ctx, userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("loading training analytics: %w", err)
	}
	last, err := s.store.LastTrainingDate(ctx, userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("loading last training date: %w", err)
	}
	view := &AnalyticsView{Analytics: a, LastTrainingDate: last}
	if a != nil {
		if view.Recommendation, err = s.tracker.Recommendation(ctx, userID, exercise); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Stats returns aggregate counts of the user's data.
func (s *Service) Stats(ctx context.Context, userID string) (*models.DataStats, error) {
	return s.store.GetDataStats(ctx, userID)
}
