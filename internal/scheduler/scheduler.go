// Package scheduler publishes the periodic maintenance jobs to the queue on
// their cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// Publisher hands jobs to the workers
type Publisher interface {
	Publish(ctx context.Context, job *models.JobMessage) error
}

// Schedule binds a job kind to a standard five-field cron spec
type Schedule struct {
	Kind string
	Spec string
}

// Scheduler enqueues jobs on their schedules
type Scheduler struct {
	cron      *cron.Cron
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time

	runCtx context.Context
}

// New validates the schedules and registers them. Nothing fires until Run.
func New(publisher Publisher, schedules []Schedule, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		runCtx:    context.Background(),
	}

	for _, schedule := range schedules {
		if !models.IsValidJobKind(schedule.Kind) {
			return nil, fmt.Errorf("unknown job kind %q", schedule.Kind)
		}

		kind := schedule.Kind
		_, err := s.cron.AddFunc(schedule.Spec, func() {
			if err := s.Enqueue(s.runCtx, kind); err != nil {
				s.logger.Error("failed to enqueue scheduled job",
					slog.String("kind", kind),
					slog.String("error", err.Error()),
				)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %q for %s: %w", schedule.Spec, kind, err)
		}

		s.logger.Info("job scheduled",
			slog.String("kind", kind),
			slog.String("spec", schedule.Spec),
		)
	}

	return s, nil
}

// Enqueue publishes a fresh job of the given kind
func (s *Scheduler) Enqueue(ctx context.Context, kind string) error {
	job := &models.JobMessage{
		ID:         uuid.NewString(),
		Kind:       kind,
		Attempt:    0,
		EnqueuedAt: s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, job); err != nil {
		return fmt.Errorf("failed to publish %s job: %w", kind, err)
	}

	s.logger.Info("job enqueued",
		slog.String("job_id", job.ID),
		slog.String("kind", kind),
	)
	return nil
}

// Run starts the cron loop and blocks until ctx is done. Jobs already
// firing are allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.runCtx = ctx
	s.cron.Start()
	s.logger.Info("scheduler started", slog.Int("entries", len(s.cron.Entries())))

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}
