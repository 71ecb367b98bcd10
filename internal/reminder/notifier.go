package reminder

import (
	"context"
	"log/slog"

	"github.com/HIkaru827/musclegram/internal/models"
)

// LogNotifier writes reminders to the structured log.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a LogNotifier writing to log.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs one line per due exercise. It never fails.
func (n *LogNotifier) Notify(_ context.Context, userID string, due []models.NextRecommendation) error {
	for _, r := range due {
		n.log.Info("training reminder",
			"user", userID,
			"exercise", r.ExerciseName,
			"status", r.Status,
			"days_until_next", r.DaysUntilNext,
			"next", r.NextRecommendedDate.Format("2006-01-02"),
		)
	}
	return nil
}
