// Package scheduler triggers sync runs on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/klcheung/opw-data/internal/pipeline"
)

// RunFunc executes one sync run.
type RunFunc func(ctx context.Context) (*pipeline.RunReport, error)

// Scheduler runs the pipeline immediately on start and then once per
// interval. A failed run is logged and retried on the next tick.
type Scheduler struct {
	interval time.Duration
	run      RunFunc
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Scheduler.
func New(interval time.Duration, run RunFunc, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		interval: interval,
		run:      run,
		logger:   logger,
	}
}

// Start begins the run loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop()

	s.logger.Info("scheduler started", "interval", s.interval)
	return nil
}

// Stop gracefully shuts down the scheduler. A run in flight finishes
// unless ctx expires first.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start.
	s.runOnce()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	if _, err := s.run(s.ctx); err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Error("sync run failed, retrying next tick", "error", err)
	}
}
