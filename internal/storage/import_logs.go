package storage

import (
	"context"
	"fmt"

	"github.com/HIkaru827/musclegram/internal/models"
)

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log models.ImportLog) (int64, error) {
	var id int64
	err := db.q().QueryRow(ctx,
		`INSERT INTO import_logs (user_id, source, status, sessions_received, posts_created,
		 posts_skipped, records_created, duration_ms, error_message, metadata)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING id`,
		log.UserID, log.Source, log.Status, log.SessionsReceived, log.PostsCreated,
		log.PostsSkipped, log.RecordsCreated, log.DurationMs, log.ErrorMessage, log.Metadata,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing import log entry (typically from "running" to "success" or "error").
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log models.ImportLog) error {
	_, err := db.q().Exec(ctx,
		`UPDATE import_logs SET
		 status = $2, sessions_received = $3, posts_created = $4, posts_skipped = $5,
		 records_created = $6, duration_ms = $7, error_message = $8, metadata = $9
		 WHERE id = $1`,
		id, log.Status, log.SessionsReceived, log.PostsCreated, log.PostsSkipped,
		log.RecordsCreated, log.DurationMs, log.ErrorMessage, log.Metadata,
	)
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
	rows, err := db.q().Query(ctx,
		`SELECT id, user_id, created_at, source, status, sessions_received, posts_created,
		 posts_skipped, records_created, duration_ms, error_message, metadata
		 FROM import_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []models.ImportLog
	for rows.Next() {
		var l models.ImportLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.Source, &l.Status,
			&l.SessionsReceived, &l.PostsCreated, &l.PostsSkipped, &l.RecordsCreated,
			&l.DurationMs, &l.ErrorMessage, &l.Metadata); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
