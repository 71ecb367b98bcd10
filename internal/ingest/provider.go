// Package ingest holds what import providers share: the result type and the
// import log writer.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/google/uuid"
)

// Result holds the outcome of an import.
type Result struct {
	SessionsReceived int         `json:"sessions_received"`
	PostsCreated     int         `json:"posts_created"`
	PostsSkipped     int         `json:"posts_skipped"`
	RecordsCreated   int         `json:"records_created"`
	PostIDs          []uuid.UUID `json:"post_ids,omitempty"`
	Errors           []string    `json:"errors,omitempty"`

	Message string `json:"message,omitempty"`
}

// LogStore persists import history.
type LogStore interface {
	InsertImportLog(ctx context.Context, log models.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log models.ImportLog) error
}

// Begin opens a "running" import log entry and returns its ID.
func Begin(ctx context.Context, store LogStore, userID, source string) (int64, error) {
	id, err := store.InsertImportLog(ctx, models.ImportLog{UserID: userID, Source: source, Status: "running"})
	if err != nil {
		return 0, fmt.Errorf("opening import log: %w", err)
	}
	return id, nil
}

// Finish writes the outcome of an import to the entry opened by Begin. A
// failure to write is logged and otherwise ignored.
func Finish(store LogStore, log *slog.Logger, id int64, userID, source string, result *Result, importErr error, took time.Duration) {
	entry := models.ImportLog{
		ID:     id,
		UserID: userID,
		Source: source,
		Status: "success",
	}
	if result != nil {
		entry.SessionsReceived = result.SessionsReceived
		entry.PostsCreated = result.PostsCreated
		entry.PostsSkipped = result.PostsSkipped
		entry.RecordsCreated = result.RecordsCreated
		if len(result.Errors) > 0 {
			entry.Status = "partial"
			if raw, err := json.Marshal(map[string]any{"errors": result.Errors}); err == nil {
				msg := json.RawMessage(raw)
				entry.Metadata = &msg
			}
		}
	}
	if importErr != nil {
		entry.Status = "error"
		msg := importErr.Error()
		entry.ErrorMessage = &msg
	}
	ms := int(took.Milliseconds())
	entry.DurationMs = &ms

	// The request context may already be done; the log row should still land.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.UpdateImportLog(ctx, id, entry); err != nil {
		log.Error("failed to log import", "source", source, "import", id, "error", err)
	}
}
