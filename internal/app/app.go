package app

import (
	"context"
	"fmt"
	"time"

	"grocy-planner/internal/logger"
	"grocy-planner/internal/metrics"
	"grocy-planner/internal/shopping"
	"grocy-planner/internal/storage"
)

// App holds the application's dependencies.
type App struct {
	generator    *shopping.Generator
	listRepo     *shopping.Repository
	metricsStore *metrics.Store
	snapshots    *storage.SnapshotStore
	log          *logger.Logger
}

// NewApp creates and initializes a new App instance. listRepo, metricsStore
// and snapshots are optional; a nil value disables that side effect.
func NewApp(
	generator *shopping.Generator,
	listRepo *shopping.Repository,
	metricsStore *metrics.Store,
	snapshots *storage.SnapshotStore,
	log *logger.Logger,
) *App {
	if log == nil {
		log = logger.Nop()
	}
	return &App{
		generator:    generator,
		listRepo:     listRepo,
		metricsStore: metricsStore,
		snapshots:    snapshots,
		log:          log,
	}
}

// GenerateShoppingList fetches a snapshot for [start, end], computes the
// shopping list and persists it. Only fetch and compute errors are returned;
// persistence failures are logged.
func (a *App) GenerateShoppingList(ctx context.Context, start, end time.Time) (*shopping.List, error) {
	began := time.Now()

	snap, err := a.generator.Fetch(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory snapshot: %w", err)
	}

	if a.snapshots != nil {
		if err := a.snapshots.Save(start, end, snap); err != nil {
			a.log.Warn("failed to record snapshot", "error", err)
		} else {
			a.log.Info("snapshot recorded", "path", a.snapshots.Path(start, end))
		}
	}

	list, err := a.generator.Compute(snap, start, end)
	if err != nil {
		return nil, err
	}
	latency := time.Since(began)

	if a.listRepo != nil {
		if _, err := a.listRepo.Save(ctx, list); err != nil {
			a.log.Warn("failed to save shopping list", "error", err)
		}
	}

	if a.metricsStore != nil {
		err := a.metricsStore.Record(ctx, metrics.GenerationMetric{
			StartDate:                list.StartDate,
			EndDate:                  list.EndDate,
			RecipesProcessed:         list.RecipesProcessed,
			HomemadeProductsResolved: list.HomemadeProductsResolved,
			ItemCount:                len(list.Items),
			LatencyMS:                latency.Milliseconds(),
		})
		if err != nil {
			a.log.Warn("failed to record generation metric", "error", err)
		}
	}

	return list, nil
}

// History returns the most recently generated lists.
func (a *App) History(ctx context.Context, limit int) ([]shopping.List, error) {
	if a.listRepo == nil {
		return nil, nil
	}
	lists, err := a.listRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping list history: %w", err)
	}
	return lists, nil
}

// Usage returns the daily generation usage for the last days.
func (a *App) Usage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	if a.metricsStore == nil {
		return nil, nil
	}
	return a.metricsStore.GetDailyUsage(ctx, days)
}

// Cleanup removes metrics and stored lists older than days. It returns the
// number of metric rows and lists removed.
func (a *App) Cleanup(ctx context.Context, days int) (int64, int64, error) {
	var metricRows, listRows int64
	var err error
	if a.metricsStore != nil {
		if metricRows, err = a.metricsStore.Cleanup(ctx, days); err != nil {
			return 0, 0, err
		}
	}
	if a.listRepo != nil {
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		if listRows, err = a.listRepo.DeleteOlderThan(ctx, cutoff); err != nil {
			return metricRows, 0, err
		}
	}
	a.log.Info("cleanup complete", "days", days, "metrics_removed", metricRows, "lists_removed", listRows)
	return metricRows, listRows, nil
}
