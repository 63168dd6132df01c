package window

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/klcheung/opw-data/internal/model"
)

// VersionLister lists archive version stamps for a date range.
type VersionLister interface {
	ListVersions(ctx context.Context, start, end time.Time) ([]string, error)
}

// Config holds tracker parameters.
type Config struct {
	LookbackDays  int // remote horizon considered, ending yesterday
	BatchDays     int // version-listing sub-window size (upstream range cap)
	BacktrackDays int // age at which a stored date is treated as final
}

// VersionWindow is the plan for one sync run. Pending and Expired are
// disjoint: every stored date ends up pending (re-fetch), omitted
// (stable) or expired (purge).
type VersionWindow struct {
	Pending map[model.Date]string // date → version stamp to fetch
	Refetch []model.Date          // pending dates storage already holds
	Expired []model.Date          // stored dates gone from the remote horizon
}

// PendingDates returns the pending dates in ascending order.
func (w *VersionWindow) PendingDates() []model.Date {
	dates := make([]model.Date, 0, len(w.Pending))
	for d := range w.Pending {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}

// DeleteDates returns the dates whose stored prices must be purged
// before inserting: expired dates plus re-fetched ones.
func (w *VersionWindow) DeleteDates() []model.Date {
	dates := make([]model.Date, 0, len(w.Expired)+len(w.Refetch))
	dates = append(dates, w.Expired...)
	dates = append(dates, w.Refetch...)
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}

// Tracker assembles the version window for a run.
type Tracker struct {
	cfg    Config
	lister VersionLister
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Tracker.
func New(cfg Config, lister VersionLister, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		cfg:    cfg,
		lister: lister,
		logger: logger,
		now:    time.Now,
	}
}

// Plan lists the remotely available dates and diffs them against the
// dates storage already holds. Any listing failure aborts the plan;
// a partial window must never drive deletions.
func (t *Tracker) Plan(ctx context.Context, known []model.Date) (*VersionWindow, error) {
	today := t.now()

	remote, err := t.fetchRemote(ctx, today)
	if err != nil {
		return nil, err
	}

	w := &VersionWindow{Pending: remote}
	cutoff := model.DateOf(today.AddDate(0, 0, -t.cfg.BacktrackDays))

	for _, date := range known {
		if _, ok := remote[date]; !ok {
			// Aged out of the upstream retention window.
			w.Expired = append(w.Expired, date)
			continue
		}
		if date.Before(cutoff) {
			// Old enough that the stored copy is final.
			delete(w.Pending, date)
			continue
		}
		// Recent stored date: re-fetch to pick up late corrections.
		w.Refetch = append(w.Refetch, date)
	}

	sort.Slice(w.Refetch, func(i, j int) bool { return w.Refetch[i] < w.Refetch[j] })
	sort.Slice(w.Expired, func(i, j int) bool { return w.Expired[i] < w.Expired[j] })

	t.logger.Info("version window planned",
		"pending", len(w.Pending),
		"refetch", len(w.Refetch),
		"expired", len(w.Expired),
	)

	return w, nil
}

// fetchRemote walks the lookback horizon in sub-windows and returns one
// version stamp per covered date. Sub-windows may overlap at the edges;
// the greatest stamp per date wins so the result is deterministic
// regardless of iteration order.
func (t *Tracker) fetchRemote(ctx context.Context, today time.Time) (map[model.Date]string, error) {
	remote := make(map[model.Date]string)

	for delta := 0; delta < t.cfg.LookbackDays; delta += t.cfg.BatchDays {
		end := today.AddDate(0, 0, -(1 + delta))
		start := end.AddDate(0, 0, -(t.cfg.BatchDays - 1))

		versions, err := t.lister.ListVersions(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("list versions: %w", err)
		}

		for _, version := range versions {
			date, err := model.DateForVersion(version)
			if err != nil {
				return nil, fmt.Errorf("map version to date: %w", err)
			}
			if version > remote[date] {
				remote[date] = version
			}
		}
	}

	return remote, nil
}
