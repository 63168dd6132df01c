package window

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/klcheung/opw-data/internal/model"
)

type fakeLister struct {
	calls    [][2]string // recorded start/end pairs
	versions []string
	err      error
}

func (f *fakeLister) ListVersions(_ context.Context, start, end time.Time) ([]string, error) {
	f.calls = append(f.calls, [2]string{start.Format(model.DateLayout), end.Format(model.DateLayout)})
	if f.err != nil {
		return nil, f.err
	}
	return f.versions, nil
}

func fixedNow(t *Tracker) {
	t.now = func() time.Time {
		return time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)
	}
}

func TestPlanSubWindows(t *testing.T) {
	lister := &fakeLister{}
	tr := New(Config{LookbackDays: 30, BatchDays: 10, BacktrackDays: 3}, lister, nil)
	fixedNow(tr)

	if _, err := tr.Plan(context.Background(), nil); err != nil {
		t.Fatalf("Plan: %v", err)
	}

	want := [][2]string{
		{"20240110", "20240119"},
		{"20231231", "20240109"},
		{"20231221", "20231230"},
	}
	if len(lister.calls) != len(want) {
		t.Fatalf("calls = %d, want %d", len(lister.calls), len(want))
	}
	for i, w := range want {
		if lister.calls[i] != w {
			t.Errorf("call %d = %v, want %v", i, lister.calls[i], w)
		}
	}
}

func TestPlanDiff(t *testing.T) {
	// Remote horizon covers dates 20240117..20240119 (stamps are one day
	// after the data date) plus an old stable date 20240110.
	lister := &fakeLister{versions: []string{
		"20240118-0915", // date 20240117 (before cutoff, stored → stable)
		"20240119-0910", // date 20240118 (stored → refetch)
		"20240120-0905", // date 20240119 (new → pending)
		"20240111-0900", // date 20240110 (stored, old → stable)
	}}
	tr := New(Config{LookbackDays: 30, BatchDays: 30, BacktrackDays: 2}, lister, nil)
	fixedNow(tr) // today = 20240120, cutoff = 20240118

	known := []model.Date{"20240101", "20240110", "20240117", "20240118"}
	w, err := tr.Plan(context.Background(), known)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	// 20240101 absent remotely → expired.
	if len(w.Expired) != 1 || w.Expired[0] != "20240101" {
		t.Errorf("Expired = %v, want [20240101]", w.Expired)
	}

	// 20240110 and 20240117 precede the cutoff → dropped from pending.
	for _, d := range []model.Date{"20240110", "20240117"} {
		if _, ok := w.Pending[d]; ok {
			t.Errorf("stable date %s should not be pending", d)
		}
	}

	// 20240118 recent and stored → pending + refetch.
	if v := w.Pending["20240118"]; v != "20240119-0910" {
		t.Errorf("Pending[20240118] = %q, want 20240119-0910", v)
	}
	if len(w.Refetch) != 1 || w.Refetch[0] != "20240118" {
		t.Errorf("Refetch = %v, want [20240118]", w.Refetch)
	}

	// 20240119 new → pending only.
	if v := w.Pending["20240119"]; v != "20240120-0905" {
		t.Errorf("Pending[20240119] = %q, want 20240120-0905", v)
	}

	// Pending and expired stay disjoint.
	for _, d := range w.Expired {
		if _, ok := w.Pending[d]; ok {
			t.Errorf("date %s is both pending and expired", d)
		}
	}
}

func TestPlanOverlapLastVersionWins(t *testing.T) {
	lister := &fakeLister{versions: []string{
		"20240119-0910",
		"20240119-2330", // later stamp for the same date
	}}
	tr := New(Config{LookbackDays: 10, BatchDays: 10, BacktrackDays: 3}, lister, nil)
	fixedNow(tr)

	w, err := tr.Plan(context.Background(), nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if v := w.Pending["20240118"]; v != "20240119-2330" {
		t.Errorf("Pending[20240118] = %q, want the greatest stamp", v)
	}
}

func TestPlanListingFailureAborts(t *testing.T) {
	lister := &fakeLister{err: errors.New("boom")}
	tr := New(Config{LookbackDays: 30, BatchDays: 10, BacktrackDays: 3}, lister, nil)
	fixedNow(tr)

	if _, err := tr.Plan(context.Background(), []model.Date{"20240101"}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPlanMalformedStampAborts(t *testing.T) {
	lister := &fakeLister{versions: []string{"garbage"}}
	tr := New(Config{LookbackDays: 10, BatchDays: 10, BacktrackDays: 3}, lister, nil)
	fixedNow(tr)

	if _, err := tr.Plan(context.Background(), nil); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDeleteDates(t *testing.T) {
	w := &VersionWindow{
		Refetch: []model.Date{"20240118"},
		Expired: []model.Date{"20240101", "20240102"},
	}
	got := w.DeleteDates()
	want := []model.Date{"20240101", "20240102", "20240118"}
	if len(got) != len(want) {
		t.Fatalf("DeleteDates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DeleteDates[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
