package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/HIkaru827/musclegram/internal/analytics"
	"github.com/HIkaru827/musclegram/internal/config"
	"github.com/HIkaru827/musclegram/internal/ingest"
	"github.com/HIkaru827/musclegram/internal/ingest/alpha"
	"github.com/HIkaru827/musclegram/internal/metrics"
	"github.com/HIkaru827/musclegram/internal/records"
	"github.com/HIkaru827/musclegram/internal/storage/backend"
	"github.com/HIkaru827/musclegram/internal/workouts"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	csvPath := flag.String("file", "", "path to an Alpha Progression CSV export (required)")
	userID := flag.String("user", "", "user the sessions belong to (required)")
	dryRun := flag.Bool("dry-run", false, "parse the export and report sessions without writing")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *csvPath == "" || (*userID == "" && !*dryRun) {
		fmt.Fprintf(os.Stderr, "Usage: musclegram-import -config config.yaml -user <id> -file export.csv [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	loc, err := cfg.Analytics.Location()
	if err != nil {
		log.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("failed to open export", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if *dryRun {
		sessions, err := alpha.Parse(f, loc)
		if err != nil {
			log.Error("parse failed", "error", err)
			os.Exit(1)
		}
		for _, s := range sessions {
			log.Info("session", "date", s.Date.Format(time.DateOnly), "name", s.Name, "exercises", len(s.Exercises))
		}
		log.Info("dry run complete", "sessions", len(sessions))
		return
	}

	ctx := context.Background()
	db, closeDB, err := backend.Open(ctx, cfg.Database, "migrations", log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeDB()

	// The import process does not serve /metrics; counters go to a private
	// registry.
	m := metrics.NewManager("musclegram", "import", prometheus.NewRegistry())
	svc := workouts.NewService(db,
		records.NewDetector(db, m, cfg.Analytics.DetectorConcurrency, log),
		analytics.NewTracker(db, loc, m, log),
		log)
	provider := alpha.NewProvider(svc, loc, log)

	start := time.Now()
	logID, err := ingest.Begin(ctx, db, *userID, alpha.Source)
	if err != nil {
		log.Error("failed to start import log", "error", err)
		os.Exit(1)
	}
	result, err := provider.Ingest(ctx, f, *userID)
	ingest.Finish(db, log, logID, *userID, alpha.Source, result, err, time.Since(start))
	if result != nil {
		log.Info("import stats",
			"sessions_received", result.SessionsReceived,
			"posts_created", result.PostsCreated,
			"posts_skipped", result.PostsSkipped,
			"records_created", result.RecordsCreated,
		)
	}
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
	log.Info("import complete")
}
