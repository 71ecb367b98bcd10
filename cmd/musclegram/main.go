package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/HIkaru827/musclegram/internal/analytics"
	"github.com/HIkaru827/musclegram/internal/config"
	"github.com/HIkaru827/musclegram/internal/ingest/alpha"
	"github.com/HIkaru827/musclegram/internal/mcp"
	"github.com/HIkaru827/musclegram/internal/metrics"
	"github.com/HIkaru827/musclegram/internal/records"
	"github.com/HIkaru827/musclegram/internal/reminder"
	"github.com/HIkaru827/musclegram/internal/server"
	"github.com/HIkaru827/musclegram/internal/storage/backend"
	"github.com/HIkaru827/musclegram/internal/workouts"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "apply the schema and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("musclegram starting", "version", Version)

	if err := run(*configPath, *migrateOnly, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, migrateOnly bool, log *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	loc, err := cfg.Analytics.Location()
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, closeDB, err := backend.Open(ctx, cfg.Database, "migrations", log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer closeDB()
	if migrateOnly {
		log.Info("migrate-only: exiting")
		return nil
	}

	m := metrics.NewManager("musclegram", "api", prometheus.DefaultRegisterer)
	detector := records.NewDetector(db, m, cfg.Analytics.DetectorConcurrency, log)
	tracker := analytics.NewTracker(db, loc, m, log)
	svc := workouts.NewService(db, detector, tracker, log)

	srv := server.New(svc, alpha.NewProvider(svc, loc, log), db, cfg.Auth.APIKey, m, log)
	srv.SetMCP(mcp.New(svc, Version, log))

	if cfg.Reminders.Enabled {
		rm := reminder.New(db, svc, reminder.NewLogNotifier(log), cfg.Reminders.Schedule, m, log)
		if err := rm.Start(); err != nil {
			return fmt.Errorf("starting reminders: %w", err)
		}
		defer rm.Stop()
		log.Info("reminders scheduled", "schedule", cfg.Reminders.Schedule)
	}

	listener, closeListener, err := listen(cfg, srv, log)
	if err != nil {
		return err
	}
	defer closeListener()

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ConnState:         server.ConnStateMetrics(m),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// listen opens the tailnet listener when Tailscale is enabled and a plain TCP
// one otherwise.
func listen(cfg *config.Config, srv *server.Server, log *slog.Logger) (net.Listener, func(), error) {
	if !cfg.Tailscale.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, nil, fmt.Errorf("listening on %s: %w", addr, err)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
		return ln, func() {}, nil
	}

	ts := &tsnet.Server{
		Hostname: cfg.Tailscale.Hostname,
		Dir:      cfg.Tailscale.StateDir,
	}
	if err := ts.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting tsnet: %w", err)
	}
	lc, err := ts.LocalClient()
	if err != nil {
		ts.Close()
		return nil, nil, fmt.Errorf("tsnet local client: %w", err)
	}
	srv.SetTailscale(lc)

	ln, err := ts.Listen("tcp", ":80")
	if err != nil {
		ts.Close()
		return nil, nil, fmt.Errorf("tsnet listen: %w", err)
	}
	log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	return ln, func() { ts.Close() }, nil
}
