package mcp

import (
	"context"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/workouts"
)

// DataSource abstracts the data layer for MCP tools. Both *workouts.Service
// (local, over either storage backend) and HTTPClient (remote via REST API)
// satisfy this interface.
type DataSource interface {
	PRs(ctx context.Context, userID string, f models.PRFilter) ([]models.PRRecord, error)
	WeeklyPRs(ctx context.Context, userID string) ([]models.PRRecord, error)
	PRTrend(ctx context.Context, userID, exercise string, prType models.PRType, limit int) ([]models.PRRecord, error)
	Recommendations(ctx context.Context, userID string) ([]models.NextRecommendation, error)
	Stats(ctx context.Context, userID string) (*models.DataStats, error)
}

// Compile-time check: *workouts.Service satisfies DataSource.
var _ DataSource = (*workouts.Service)(nil)
