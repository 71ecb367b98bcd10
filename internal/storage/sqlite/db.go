// Package sqlite is the embedded single-file storage backend. It implements
// the same repository methods as the Postgres backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/records"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS workout_posts (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	exercises    TEXT NOT NULL,
	duration_min INTEGER NOT NULL DEFAULT 0,
	comment      TEXT NOT NULL DEFAULT '',
	photos       TEXT NOT NULL DEFAULT '[]',
	likes        INTEGER NOT NULL DEFAULT 0,
	liked_by     TEXT NOT NULL DEFAULT '[]',
	comments     INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL,
	record_date  INTEGER
);
CREATE INDEX IF NOT EXISTS idx_workout_posts_user ON workout_posts (user_id, created_at);

CREATE TABLE IF NOT EXISTS workout_exercises (
	post_id    TEXT NOT NULL,
	position   INTEGER NOT NULL,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	trained_at INTEGER NOT NULL,
	set_count  INTEGER NOT NULL,
	volume     REAL NOT NULL,
	PRIMARY KEY (post_id, position)
);
CREATE INDEX IF NOT EXISTS idx_workout_exercises_user_name ON workout_exercises (user_id, name, trained_at);

CREATE TABLE IF NOT EXISTS personal_records (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	exercise_name TEXT NOT NULL,
	pr_type       TEXT NOT NULL,
	value         REAL NOT NULL,
	weight_kg     REAL,
	reps          INTEGER,
	date          INTEGER NOT NULL,
	workout_id    TEXT,
	previous_best REAL,
	improvement   REAL,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_personal_records_series ON personal_records (user_id, exercise_name, pr_type, value);
CREATE INDEX IF NOT EXISTS idx_personal_records_user_date ON personal_records (user_id, date);
CREATE INDEX IF NOT EXISTS idx_personal_records_workout ON personal_records (workout_id);

CREATE TABLE IF NOT EXISTS training_analytics (
	user_id           TEXT NOT NULL,
	exercise_name     TEXT NOT NULL,
	average_frequency REAL NOT NULL,
	last_updated      INTEGER NOT NULL,
	PRIMARY KEY (user_id, exercise_name)
);

CREATE TABLE IF NOT EXISTS import_logs (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id           TEXT NOT NULL,
	created_at        INTEGER NOT NULL,
	source            TEXT NOT NULL,
	status            TEXT NOT NULL,
	sessions_received INTEGER NOT NULL DEFAULT 0,
	posts_created     INTEGER NOT NULL DEFAULT 0,
	posts_skipped     INTEGER NOT NULL DEFAULT 0,
	records_created   INTEGER NOT NULL DEFAULT 0,
	duration_ms       INTEGER,
	error_message     TEXT,
	metadata          TEXT
);
CREATE INDEX IF NOT EXISTS idx_import_logs_user ON import_logs (user_id, created_at);
`

// querier is the part of *sql.DB and *sql.Tx the repository methods use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB is a SQLite-backed store. Timestamps are stored as UTC Unix
// microseconds. A DB handed out by WithPRLock is bound to that transaction.
type DB struct {
	sql *sql.DB
	tx  *sql.Tx
}

// Open opens (or creates) the database file at path and applies the schema.
// Write transactions are started with BEGIN IMMEDIATE so concurrent writers
// queue on the file lock instead of failing on upgrade.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	params := url.Values{}
	params.Set("_txlock", "immediate")
	params.Add("_pragma", "busy_timeout(10000)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "foreign_keys(1)")

	db, err := sql.Open("sqlite", "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{sql: db}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.sql.Close()
}

func (db *DB) q() querier {
	if db.tx != nil {
		return db.tx
	}
	return db.sql
}

// inTx runs fn in a transaction, or directly when db is already
// transaction-bound.
func (db *DB) inTx(ctx context.Context, fn func(tx *DB) error) error {
	if db.tx != nil {
		return fn(db)
	}
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(&DB{sql: db.sql, tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// WithPRLock runs fn inside an immediate write transaction. SQLite admits one
// writer at a time, so the read-compare-write of a series never interleaves.
func (db *DB) WithPRLock(ctx context.Context, key models.PRKey, fn func(ctx context.Context, tx records.Store) error) error {
	return db.inTx(ctx, func(tx *DB) error {
		return fn(ctx, tx)
	})
}

func toUnix(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromUnix(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

func toUnixPtr(t *time.Time) *int64 {
	if t == nil || t.IsZero() {
		return nil
	}
	v := toUnix(*t)
	return &v
}

func fromUnixPtr(us *int64) *time.Time {
	if us == nil {
		return nil
	}
	t := fromUnix(*us)
	return &t
}
