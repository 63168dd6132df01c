// Package pipeline runs one full catalog sync: plan the version
// window, fetch the pending snapshots, shred, normalize, deduplicate
// and commit.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/klcheung/opw-data/internal/dedup"
	"github.com/klcheung/opw-data/internal/model"
	"github.com/klcheung/opw-data/internal/plan"
	"github.com/klcheung/opw-data/internal/promo"
	"github.com/klcheung/opw-data/internal/shred"
	"github.com/klcheung/opw-data/internal/store"
	"github.com/klcheung/opw-data/internal/window"
)

// SnapshotFetcher downloads one archived catalog snapshot.
type SnapshotFetcher interface {
	GetSnapshot(ctx context.Context, version string) ([]model.RawItemRecord, error)
}

// Notifier reports run outcomes. Implementations must never block a
// run on delivery problems.
type Notifier interface {
	Alert(ctx context.Context)
	ReportError(ctx context.Context, runErr error)
}

// Runner executes sync runs. All storage writes happen in commit, after
// every transform has succeeded, so a failed run leaves storage
// untouched.
type Runner struct {
	tracker     *window.Tracker
	fetcher     SnapshotFetcher
	store       store.Store
	normalizer  *promo.Normalizer
	notifier    Notifier // optional
	concurrency int
	logger      *slog.Logger
}

// NewRunner wires a Runner. notifier may be nil.
func NewRunner(tracker *window.Tracker, fetcher SnapshotFetcher, st store.Store, normalizer *promo.Normalizer, notifier Notifier, concurrency int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		tracker:     tracker,
		fetcher:     fetcher,
		store:       st,
		normalizer:  normalizer,
		notifier:    notifier,
		concurrency: concurrency,
		logger:      logger,
	}
}

// RunReport summarizes one run.
type RunReport struct {
	RunID        uuid.UUID
	Skipped      bool // no pending dates, nothing written
	PendingDates int
	NewItems     int
	PriceRows    int
	DeletedDates int
	ExpiredDates int
	Duration     time.Duration
}

// Run executes one sync run end to end.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	report, err := r.run(ctx)
	if err != nil && r.notifier != nil {
		r.notifier.ReportError(ctx, err)
	}
	return report, err
}

func (r *Runner) run(ctx context.Context) (*RunReport, error) {
	runID := uuid.New()
	start := time.Now()
	logger := r.logger.With("run_id", runID)
	logger.Info("sync run started")

	known, err := r.store.KnownDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("known dates: %w", err)
	}

	win, err := r.tracker.Plan(ctx, known)
	if err != nil {
		return nil, fmt.Errorf("plan window: %w", err)
	}

	if len(win.Pending) == 0 {
		logger.Info("no pending dates, skipping commit",
			"known_dates", len(known),
			"duration", time.Since(start),
		)
		return &RunReport{RunID: runID, Skipped: true, Duration: time.Since(start)}, nil
	}

	snapshots, err := r.fetchAll(ctx, win)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshots: %w", err)
	}

	var items []model.Item
	var rows []model.PriceRow
	for _, snap := range snapshots {
		snapItems, snapRows := shred.Snapshot(snap.records, snap.date)
		items = append(items, snapItems...)
		rows = append(rows, snapRows...)
	}
	logger.Info("snapshots shredded",
		"dates", len(snapshots),
		"items", len(items),
		"rows", len(rows),
	)

	priced := r.normalizer.NormalizeAll(rows)
	merged := dedup.Merge(priced)

	knownSKUs, err := r.store.KnownSKUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("known skus: %w", err)
	}

	ws := plan.Build(runID, items, merged, win, knownSKUs)

	if err := r.commit(ctx, ws); err != nil {
		return nil, err
	}

	if r.notifier != nil {
		r.notifier.Alert(ctx)
	}

	report := &RunReport{
		RunID:        runID,
		PendingDates: len(win.Pending),
		NewItems:     len(ws.NewItems),
		PriceRows:    len(ws.PriceRows),
		DeletedDates: len(ws.DeleteDates),
		ExpiredDates: len(ws.ExpiredDates),
		Duration:     time.Since(start),
	}
	logger.Info("sync run finished",
		"pending_dates", report.PendingDates,
		"new_items", report.NewItems,
		"price_rows", report.PriceRows,
		"deleted_dates", report.DeletedDates,
		"duration", report.Duration,
	)
	return report, nil
}

type datedSnapshot struct {
	date    model.Date
	records []model.RawItemRecord
}

// fetchAll downloads every pending snapshot with bounded concurrency.
// The first failure cancels the rest and aborts the run. Results come
// back in ascending date order.
func (r *Runner) fetchAll(ctx context.Context, win *window.VersionWindow) ([]datedSnapshot, error) {
	dates := win.PendingDates()
	out := make([]datedSnapshot, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, date := range dates {
		version := win.Pending[date]
		g.Go(func() error {
			records, err := r.fetcher.GetSnapshot(gctx, version)
			if err != nil {
				return fmt.Errorf("snapshot %s (version %s): %w", date, version, err)
			}
			out[i] = datedSnapshot{date: date, records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// commit applies the write set: items first, then the delete of every
// re-processed date, then the inserts.
func (r *Runner) commit(ctx context.Context, ws model.WriteSet) error {
	if err := r.store.UpsertItems(ctx, ws.NewItems); err != nil {
		return fmt.Errorf("upsert items: %w", err)
	}
	if err := r.store.DeletePrices(ctx, ws.DeleteDates); err != nil {
		return fmt.Errorf("delete prices: %w", err)
	}
	if err := r.store.InsertPrices(ctx, ws.PriceRows); err != nil {
		return fmt.Errorf("insert prices: %w", err)
	}
	return nil
}
