package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klcheung/opw-data/internal/archive"
	"github.com/klcheung/opw-data/internal/config"
	"github.com/klcheung/opw-data/internal/notify"
	"github.com/klcheung/opw-data/internal/pipeline"
	"github.com/klcheung/opw-data/internal/promo"
	"github.com/klcheung/opw-data/internal/scheduler"
	"github.com/klcheung/opw-data/internal/store"
	"github.com/klcheung/opw-data/internal/version"
	"github.com/klcheung/opw-data/internal/window"
)

func main() {
	configPath := flag.String("config", "configs/syncer.local.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single sync and exit")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting syncer",
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

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"archive_url", cfg.Archive.BaseURL,
		"lookback_days", cfg.Sync.LookbackDays,
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
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pg, err := store.Connect(ctx, cfg.Database.Postgres, cfg.Sync.InsertBatch, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	logger.Info("database connected")

	// Create archive client
	client := archive.NewClient(
		cfg.Archive.BaseURL,
		cfg.Archive.SourceURL,
		archive.WithLogger(logger),
		archive.WithTimeout(cfg.Archive.Timeout),
		archive.WithRetries(cfg.Archive.MaxRetries, cfg.Archive.RetryBackoff),
	)

	tracker := window.New(window.Config{
		LookbackDays:  cfg.Sync.LookbackDays,
		BatchDays:     cfg.Archive.BatchDays,
		BacktrackDays: cfg.Sync.BacktrackDays,
	}, client, logger)

	normalizer := promo.NewNormalizer(cfg.Sync.DiscountThreshold, logger)
	notifier := notify.NewWebhook(cfg.Notify, logger)

	runner := pipeline.NewRunner(
		tracker,
		client,
		pg,
		normalizer,
		notifier,
		cfg.Archive.FetchConcurrency,
		logger,
	)

	if *once {
		report, err := runner.Run(ctx)
		if err != nil {
			logger.Error("sync run failed", "error", err)
			os.Exit(1)
		}
		logger.Info("single run complete",
			"run_id", report.RunID,
			"skipped", report.Skipped,
			"price_rows", report.PriceRows,
		)
		return
	}

	sched := scheduler.New(cfg.Scheduler.Interval, runner.Run, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	logger.Info("syncer running",
		"instance_id", cfg.Instance.ID,
		"interval", cfg.Scheduler.Interval,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler shutdown error", "error", err)
	}

	logger.Info("syncer stopped")
}
