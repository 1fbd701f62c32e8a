package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Raymond9734/crm-backend/internal/config"
	"github.com/Raymond9734/crm-backend/internal/jobs"
	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/queue"
	"github.com/Raymond9734/crm-backend/internal/scheduler"
	"github.com/Raymond9734/crm-backend/internal/worker"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting CRM worker")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	queueClient, err := newQueue(cfg, logger)
	if err != nil {
		logger.Error("failed to create queue", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	// Jobs reach the data through the HTTP API, so the worker needs no database
	registry := jobs.NewRegistry(jobs.SettingsFromConfig(cfg.Jobs), logger)
	processor := worker.NewJobProcessor(registry, queueClient, cfg.Worker.MaxRetryCount, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting job consumer",
			slog.Int("concurrency", cfg.Worker.Concurrency),
			slog.Int("max_retry_count", cfg.Worker.MaxRetryCount),
		)
		return queueClient.Consume(ctx, processor.Process, cfg.Worker.Concurrency)
	})

	if cfg.Worker.SchedulerEnabled {
		sched, err := scheduler.New(queueClient, []scheduler.Schedule{
			{Kind: models.JobHeartbeat, Spec: cfg.Jobs.HeartbeatSchedule},
			{Kind: models.JobLowStock, Spec: cfg.Jobs.LowStockSchedule},
			{Kind: models.JobOrderReminders, Spec: cfg.Jobs.ReminderSchedule},
		}, logger)
		if err != nil {
			logger.Error("failed to create scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		g.Go(func() error {
			return sched.Run(ctx)
		})
	} else if cfg.Queue.Backend == "memory" {
		logger.Warn("scheduler disabled with the memory queue; no jobs will arrive")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("worker stopped gracefully")
}

func newQueue(cfg *config.Config, logger *slog.Logger) (queue.Client, error) {
	if cfg.Queue.Backend == "memory" {
		logger.Info("using in-memory queue")
		return queue.NewMemoryClient(100, logger), nil
	}
	return queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
}
