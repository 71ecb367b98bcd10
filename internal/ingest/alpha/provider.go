package alpha

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/HIkaru827/musclegram/internal/ingest"
	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/workouts"
	"github.com/google/uuid"
)

// Source is the import log source name.
const Source = "alpha_progression"

// postNamespace derives stable post IDs so a re-imported session maps to the
// post created the first time.
var postNamespace = uuid.MustParse("6f1c7a52-3d0e-4c1b-9a57-5b2f0e8d4a11")

// Poster is the part of the workout service an import needs.
type Poster interface {
	Post(ctx context.Context, post *models.WorkoutPost) (*workouts.PostResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.WorkoutPost, error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	posts Poster
	loc   *time.Location
	log   *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider. Session times
// in the export are read in loc.
func NewProvider(posts Poster, loc *time.Location, log *slog.Logger) *Provider {
	return &Provider{posts: posts, loc: loc, log: log}
}

// Ingest parses a CSV export and posts each session as a workout for userID,
// oldest first so record improvements follow the training order. Sessions
// imported before are skipped.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID string) (*ingest.Result, error) {
	sessions, err := Parse(r, p.loc)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	slices.SortStableFunc(sessions, func(a, b models.AlphaSession) int {
		return a.Date.Compare(b.Date)
	})

	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		post := s.ToWorkoutPost(userID)
		if len(post.Exercises) == 0 {
			result.PostsSkipped++
			continue
		}
		post.ID = SessionID(userID, s)
		post.CreatedAt = s.Date

		_, err := p.posts.Get(ctx, post.ID)
		if err == nil {
			result.PostsSkipped++
			continue
		}
		if !errors.Is(err, workouts.ErrNotFound) {
			return result, fmt.Errorf("checking session %s: %w", s.Date.Format("2006-01-02"), err)
		}

		res, err := p.posts.Post(ctx, &post)
		if err != nil {
			return result, fmt.Errorf("posting session %s: %w", s.Date.Format("2006-01-02"), err)
		}
		result.PostsCreated++
		result.RecordsCreated += len(res.NewRecords)
		result.PostIDs = append(result.PostIDs, post.ID)
		result.Errors = append(result.Errors, res.Errors...)
	}

	p.log.Info("alpha import finished", "user", userID, "sessions", result.SessionsReceived,
		"created", result.PostsCreated, "skipped", result.PostsSkipped, "records", result.RecordsCreated)
	return result, nil
}

// SessionID is the post ID an exported session is stored under.
func SessionID(userID string, s models.AlphaSession) uuid.UUID {
	key := userID + "|" + s.Date.UTC().Format(time.RFC3339) + "|" + s.Name
	return uuid.NewSHA1(postNamespace, []byte(key))
}
