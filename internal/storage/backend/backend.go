// Package backend opens the storage driver named in the configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HIkaru827/musclegram/internal/config"
	"github.com/HIkaru827/musclegram/internal/ingest"
	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/HIkaru827/musclegram/internal/storage"
	"github.com/HIkaru827/musclegram/internal/storage/sqlite"
	"github.com/HIkaru827/musclegram/internal/workouts"
)

// Store is what the binaries need from either driver.
type Store interface {
	workouts.Store
	ingest.LogStore
	QueryImportLogs(ctx context.Context, userID string, limit int) ([]models.ImportLog, error)
	ListUsersWithAnalytics(ctx context.Context) ([]string, error)
}

var (
	_ Store = (*storage.DB)(nil)
	_ Store = (*sqlite.DB)(nil)
)

// Open connects the configured driver and brings its schema up to date.
// PostgreSQL migrations are read from migrationsDir. The returned func closes
// the store.
func Open(ctx context.Context, cfg config.DatabaseConfig, migrationsDir string, log *slog.Logger) (Store, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info("sqlite database opened", "path", cfg.Path)
		return db, func() { db.Close() }, nil

	case config.DriverPostgres:
		dsn := cfg.DSN()
		if err := storage.RunMigrations(dsn, migrationsDir); err != nil {
			return nil, nil, err
		}
		log.Info("migrations applied")
		db, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connected")
		return db, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
