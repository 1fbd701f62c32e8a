package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// ErrClosed is returned when publishing to a closed in-memory queue
var ErrClosed = errors.New("queue closed")

// memoryClient is an in-process Client for a worker that runs the scheduler
// and consumer together without Redis.
type memoryClient struct {
	jobs   chan *models.JobMessage
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// NewMemoryClient creates an in-process queue holding up to capacity jobs
func NewMemoryClient(capacity int, logger *slog.Logger) Client {
	if capacity < 1 {
		capacity = 1
	}
	return &memoryClient{
		jobs:   make(chan *models.JobMessage, capacity),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (c *memoryClient) Publish(ctx context.Context, job *models.JobMessage) error {
	if _, err := encodeJob(job); err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	copied := *job
	select {
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case c.jobs <- &copied:
		return nil
	}
}

func (c *memoryClient) Consume(ctx context.Context, handler JobHandler, concurrency int) error {
	concurrency = clampConcurrency(concurrency)
	semaphore := make(chan struct{}, concurrency)
	drain := func() {
		for i := 0; i < concurrency; i++ {
			semaphore <- struct{}{}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return ctx.Err()
		case <-c.done:
			drain()
			return nil
		case job := <-c.jobs:
			semaphore <- struct{}{}
			go func(job *models.JobMessage) {
				defer func() { <-semaphore }()
				if err := handler(ctx, job); err != nil {
					c.logger.Error("handler failed to process job",
						slog.String("job_id", job.ID),
						slog.String("kind", job.Kind),
						slog.String("error", err.Error()),
					)
				}
			}(job)
		}
	}
}

func (c *memoryClient) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *memoryClient) Health(ctx context.Context) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
		return nil
	}
}
