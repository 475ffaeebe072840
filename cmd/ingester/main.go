package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polymoney/polymarket-data/internal/api"
	"github.com/polymoney/polymarket-data/internal/config"
	"github.com/polymoney/polymarket-data/internal/database"
	"github.com/polymoney/polymarket-data/internal/ingest"
	"github.com/polymoney/polymarket-data/internal/metrics"
	"github.com/polymoney/polymarket-data/internal/store"
	"github.com/polymoney/polymarket-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/ingester.local.yaml", "path to config file")
	quick := flag.Bool("quick", false, "quick test mode: cap limits for a fast smoke run")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ingester",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *quick {
		cfg.Ingest.QuickTest = true
	}

	logger.Info("configuration loaded",
		"api_url", cfg.API.BaseURL,
		"leaderboard_limit", cfg.Ingest.LeaderboardLimit,
		"concurrency", cfg.Ingest.Concurrency,
		"quick_test", cfg.Ingest.QuickTest,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.NewPostgresStore(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	logger.Info("database ready")

	// Create API client
	client := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithRateLimit(cfg.API.RequestsPerSecond),
	)

	// Serve health and metrics while the run is in flight
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})
	mux.Handle(cfg.Ops.Path, metrics.Handler())

	opsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Ops.Port),
		Handler: mux,
	}
	go func() {
		logger.Info("starting ops server", "port", cfg.Ops.Port)
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ops server failed", "error", err)
		}
	}()

	// Run one ingestion pass. Per-user failures are logged inside the run
	// and do not affect the exit status.
	ing := ingest.New(cfg.Ingest, client, st, logger)
	summary, err := ing.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion finished",
		"run_id", summary.RunID,
		"users", summary.Users,
		"failed", summary.Failed,
		"closed_saved", summary.ClosedSaved,
		"active_saved", summary.ActiveSaved,
		"duration", summary.Duration,
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops server shutdown", "error", err)
	}
}
