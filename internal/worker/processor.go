package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// Runner executes the job registered for a kind
type Runner interface {
	Run(ctx context.Context, kind string) error
}

// Publisher puts a job back on the queue
type Publisher interface {
	Publish(ctx context.Context, job *models.JobMessage) error
}

// JobProcessor processes scheduled jobs from the queue
type JobProcessor struct {
	runner     Runner
	publisher  Publisher
	maxRetries int
	logger     *slog.Logger
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(
	runner Runner,
	publisher Publisher,
	maxRetries int,
	logger *slog.Logger,
) *JobProcessor {
	return &JobProcessor{
		runner:     runner,
		publisher:  publisher,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Process handles a single job
func (p *JobProcessor) Process(ctx context.Context, job *models.JobMessage) error {
	if !models.IsValidJobKind(job.Kind) {
		p.logger.Error("dropping job of unknown kind",
			slog.String("job_id", job.ID),
			slog.String("kind", job.Kind),
		)
		return nil
	}

	p.logger.Info("processing job",
		slog.String("job_id", job.ID),
		slog.String("kind", job.Kind),
		slog.Int("attempt", job.Attempt),
	)

	err := p.runner.Run(ctx, job.Kind)
	if err != nil {
		p.logger.Warn("job failed",
			slog.String("job_id", job.ID),
			slog.String("kind", job.Kind),
			slog.Int("attempt", job.Attempt),
			slog.String("error", err.Error()),
		)

		return p.handleFailure(ctx, job, err)
	}

	p.logger.Info("job completed",
		slog.String("job_id", job.ID),
		slog.String("kind", job.Kind),
	)

	return nil
}

// handleFailure re-queues the job until the retry budget is spent
func (p *JobProcessor) handleFailure(ctx context.Context, job *models.JobMessage, runErr error) error {
	if !job.CanRetry(p.maxRetries) {
		p.logger.Error("job permanently failed after max retries",
			slog.String("job_id", job.ID),
			slog.String("kind", job.Kind),
			slog.Int("attempts", job.Attempt+1),
			slog.Int("max_retries", p.maxRetries),
		)
		return nil
	}

	retry := *job
	retry.Attempt++

	if err := p.publisher.Publish(ctx, &retry); err != nil {
		p.logger.Error("failed to requeue job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to requeue job: %w", err)
	}

	p.logger.Info("job will be retried",
		slog.String("job_id", job.ID),
		slog.Int("attempt", retry.Attempt),
		slog.Int("max_retries", p.maxRetries),
	)

	return fmt.Errorf("job %s failed, retry %d/%d: %w", job.Kind, retry.Attempt, p.maxRetries, runErr)
}
