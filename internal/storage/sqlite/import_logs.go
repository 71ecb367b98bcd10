package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
)

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log models.ImportLog) (int64, error) {
	res, err := db.q().ExecContext(ctx,
		`INSERT INTO import_logs (user_id, created_at, source, status, sessions_received,
		 posts_created, posts_skipped, records_created, duration_ms, error_message, metadata)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		log.UserID, toUnix(time.Now()), log.Source, log.Status, log.SessionsReceived,
		log.PostsCreated, log.PostsSkipped, log.RecordsCreated, log.DurationMs,
		log.ErrorMessage, metadataText(log.Metadata))
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading import log id: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing import log entry.
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log models.ImportLog) error {
	_, err := db.q().ExecContext(ctx,
		`UPDATE import_logs SET
		 status = ?, sessions_received = ?, posts_created = ?, posts_skipped = ?,
		 records_created = ?, duration_ms = ?, error_message = ?, metadata = ?
		 WHERE id = ?`,
		log.Status, log.SessionsReceived, log.PostsCreated, log.PostsSkipped,
		log.RecordsCreated, log.DurationMs, log.ErrorMessage, metadataText(log.Metadata), id)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// QueryImportLogs returns the most recent import logs for a user.
func (db *DB) QueryImportLogs(ctx context.Context, userID string, limit int) ([]models.ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.q().QueryContext(ctx,
		`SELECT id, user_id, created_at, source, status, sessions_received, posts_created,
		 posts_skipped, records_created, duration_ms, error_message, metadata
		 FROM import_logs
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []models.ImportLog
	for rows.Next() {
		var l models.ImportLog
		var createdAt int64
		var metadata *string
		if err := rows.Scan(&l.ID, &l.UserID, &createdAt, &l.Source, &l.Status,
			&l.SessionsReceived, &l.PostsCreated, &l.PostsSkipped, &l.RecordsCreated,
			&l.DurationMs, &l.ErrorMessage, &metadata); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		l.CreatedAt = fromUnix(createdAt)
		if metadata != nil {
			raw := json.RawMessage(*metadata)
			l.Metadata = &raw
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func metadataText(m *json.RawMessage) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}
