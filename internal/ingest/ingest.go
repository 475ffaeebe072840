package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/polymoney/polymarket-data/internal/api"
	"github.com/polymoney/polymarket-data/internal/config"
	"github.com/polymoney/polymarket-data/internal/metrics"
	"github.com/polymoney/polymarket-data/internal/model"
	"github.com/polymoney/polymarket-data/internal/normalize"
	"github.com/polymoney/polymarket-data/internal/store"
)

// Error messages in user_failed events are truncated to this many bytes so
// a failing bulk write can't dump its whole parameter set into the logs.
const maxErrorLen = 800

// Caps applied in quick test mode for fast smoke runs.
const (
	quickLimit    = 2
	quickMaxTotal = 10
)

// Ingester runs one batch ingestion: leaderboard fetch, then bounded
// fan-out over users. Per-user failures are isolated; only a leaderboard
// fetch failure aborts the run.
type Ingester struct {
	cfg    config.IngestConfig
	client *api.Client
	store  store.Store
	logger *slog.Logger
}

// New creates an Ingester.
func New(cfg config.IngestConfig, client *api.Client, st store.Store, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		cfg:    cfg,
		client: client,
		store:  st,
		logger: logger,
	}
}

// Summary aggregates the outcome of one run.
type Summary struct {
	RunID       string
	Users       int
	Failed      int
	ClosedSaved int
	ActiveSaved int
	Duration    time.Duration
}

// Run executes one ingestion pass. Idempotent: re-running over the same
// upstream data writes nothing new.
func (ing *Ingester) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := ing.logger.With("run_id", runID)

	limit, closedMax, activeMax := ing.limits()

	entries, err := ing.client.FetchLeaderboard(ctx, api.LeaderboardOptions{
		Limit:      limit,
		TimePeriod: ing.cfg.TimePeriod,
		OrderBy:    ing.cfg.OrderBy,
		Category:   ing.cfg.Category,
		PageSize:   ing.cfg.LeaderboardPageSize,
	})
	if err != nil {
		return Summary{RunID: runID}, fmt.Errorf("fetch leaderboard: %w", err)
	}
	logger.Info("leaderboard_fetched", "count", len(entries))

	// Semaphore for bounded concurrency; the rate limiter inside the
	// client is the only other shared resource.
	sem := make(chan struct{}, ing.cfg.Concurrency)
	var wg sync.WaitGroup
	var failed, closedSaved, activeSaved atomic.Int64

	for idx, entry := range entries {
		wg.Add(1)
		go func(idx int, entry api.LeaderboardEntry) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			res, err := ing.processUser(ctx, logger, idx, entry, closedMax, activeMax)
			if err != nil {
				failed.Add(1)
				metrics.UsersProcessed.WithLabelValues("failed").Inc()
				logger.Error("user_failed",
					"user", entry.UserID,
					"error_type", errorType(err),
					"error", truncate(err.Error(), maxErrorLen),
				)
				return
			}

			closedSaved.Add(int64(res.closedSaved))
			activeSaved.Add(int64(res.activeSaved))
			metrics.UsersProcessed.WithLabelValues("done").Inc()
			logger.Info("user_done",
				"user", entry.UserID,
				"closed_saved", res.closedSaved,
				"active_saved", res.activeSaved,
			)
		}(idx+1, entry)
	}

	wg.Wait()

	summary := Summary{
		RunID:       runID,
		Users:       len(entries),
		Failed:      int(failed.Load()),
		ClosedSaved: int(closedSaved.Load()),
		ActiveSaved: int(activeSaved.Load()),
		Duration:    time.Since(start),
	}

	logger.Info("run_complete",
		"users", summary.Users,
		"failed", summary.Failed,
		"closed_saved", summary.ClosedSaved,
		"active_saved", summary.ActiveSaved,
		"duration", summary.Duration,
	)

	return summary, nil
}

// limits applies the quick-test caps to the configured bounds.
func (ing *Ingester) limits() (limit, closedMax, activeMax int) {
	limit = ing.cfg.LeaderboardLimit
	closedMax = ing.cfg.ClosedMaxTotal
	activeMax = ing.cfg.ActiveMaxTotal

	if ing.cfg.QuickTest {
		if limit > quickLimit {
			limit = quickLimit
		}
		closedMax = capTotal(closedMax)
		activeMax = capTotal(activeMax)
	}
	return limit, closedMax, activeMax
}

func capTotal(maxTotal int) int {
	if maxTotal == 0 || maxTotal > quickMaxTotal {
		return quickMaxTotal
	}
	return maxTotal
}

type userResult struct {
	closedSaved int
	activeSaved int
}

// processUser runs one user's full pipeline: concurrent closed and open
// position fetches, normalization, and one write scope.
func (ing *Ingester) processUser(ctx context.Context, logger *slog.Logger, idx int, entry api.LeaderboardEntry, closedMax, activeMax int) (userResult, error) {
	logger.Info("user_start", "idx", idx, "user", entry.UserID, "name", entry.DisplayName)

	var closedRaw, activeRaw []api.RawRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		closedRaw, err = ing.client.FetchClosedPositions(gctx, entry.UserID, api.PositionsOptions{
			PageSize: ing.cfg.ClosedPageSize,
			MaxTotal: closedMax,
		})
		return err
	})
	g.Go(func() error {
		var err error
		activeRaw, err = ing.client.FetchActivePositions(gctx, entry.UserID, api.PositionsOptions{
			PageSize: ing.cfg.ActivePageSize,
			MaxTotal: activeMax,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return userResult{}, err
	}

	closedRows := make([]model.ClosedPosition, 0, len(closedRaw))
	for _, raw := range closedRaw {
		closedRows = append(closedRows, normalize.ClosedPosition(raw))
	}
	activeRows := make([]model.ActivePosition, 0, len(activeRaw))
	for _, raw := range activeRaw {
		activeRows = append(activeRows, normalize.ActivePosition(raw))
	}

	var res userResult
	err := ing.store.WithScope(ctx, func(ctx context.Context, sc store.Scope) error {
		userPK, err := sc.UpsertUser(ctx, entry.UserID, entry.DisplayName)
		if err != nil {
			return err
		}

		res.closedSaved, err = ing.writeClosedPositions(ctx, sc, userPK, closedRows)
		if err != nil {
			return err
		}

		res.activeSaved, err = ing.writeActivePositions(ctx, sc, userPK, activeRows, time.Now().UTC())
		return err
	})
	if err != nil {
		return userResult{}, err
	}

	metrics.RowsSaved.WithLabelValues("closed").Add(float64(res.closedSaved))
	metrics.RowsSaved.WithLabelValues("active").Add(float64(res.activeSaved))
	return res, nil
}

// errorType names an error's concrete type for log events.
func errorType(err error) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
