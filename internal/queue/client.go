package queue

import (
	"context"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// Client defines the interface for queue operations
type Client interface {
	// Publish sends a job to the queue
	Publish(ctx context.Context, job *models.JobMessage) error

	// Consume receives jobs from the queue and processes them with the handler.
	// concurrency controls how many jobs can be processed simultaneously.
	Consume(ctx context.Context, handler JobHandler, concurrency int) error

	// Close closes the queue connection
	Close() error

	// Health checks if the queue is healthy
	Health(ctx context.Context) error
}

// JobHandler is a function that processes a scheduled job
type JobHandler func(ctx context.Context, job *models.JobMessage) error

// maxConcurrency caps the number of in-flight jobs per consumer
const maxConcurrency = 5

func clampConcurrency(concurrency int) int {
	if concurrency < 1 {
		return 1
	}
	if concurrency > maxConcurrency {
		return maxConcurrency
	}
	return concurrency
}
