package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klcheung/opw-data/internal/pipeline"
)

func TestScheduler_StartStop(t *testing.T) {
	var runs atomic.Int32
	run := func(ctx context.Context) (*pipeline.RunReport, error) {
		runs.Add(1)
		return &pipeline.RunReport{}, nil
	}

	s := New(time.Hour, run, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// The first run fires immediately, before the first tick.
	deadline := time.After(2 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no run after start")
		case <-time.After(10 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
}

func TestScheduler_Ticks(t *testing.T) {
	var runs atomic.Int32
	run := func(ctx context.Context) (*pipeline.RunReport, error) {
		runs.Add(1)
		return &pipeline.RunReport{}, nil
	}

	s := New(20*time.Millisecond, run, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d runs before deadline", runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
}

func TestScheduler_FailedRunRetriesNextTick(t *testing.T) {
	var runs atomic.Int32
	run := func(ctx context.Context) (*pipeline.RunReport, error) {
		runs.Add(1)
		return nil, errors.New("boom")
	}

	s := New(20*time.Millisecond, run, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// Failures must not kill the loop.
	deadline := time.After(2 * time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d runs before deadline", runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
}
