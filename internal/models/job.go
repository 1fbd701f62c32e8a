package models

import "time"

// Scheduled job kinds
const (
	JobHeartbeat      = "heartbeat"
	JobLowStock       = "low_stock"
	JobOrderReminders = "order_reminders"
)

// JobMessage represents a scheduled job queued for a worker
type JobMessage struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// IsValidJobKind checks if the job kind is known
func IsValidJobKind(kind string) bool {
	switch kind {
	case JobHeartbeat, JobLowStock, JobOrderReminders:
		return true
	default:
		return false
	}
}

// CanRetry checks if a failed job may be queued again
func (j *JobMessage) CanRetry(maxRetries int) bool {
	return j.Attempt+1 < maxRetries
}
