// Package jobs holds the periodic maintenance jobs. Each job talks to the CRM
// API through a Client and appends timestamped lines to its Sink.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raymond9734/crm-backend/internal/config"
	"github.com/Raymond9734/crm-backend/internal/models"
)

// Timestamp layouts used in the job logs
const (
	heartbeatLayout = "02/01/2006-15:04:05"
	reminderLayout  = "2006-01-02 15:04:05"
)

// Job is one runnable maintenance task
type Job interface {
	Run(ctx context.Context) error
}

// HeartbeatJob records whether the API answers the liveness query
type HeartbeatJob struct {
	client *Client
	sink   Sink
	now    func() time.Time
	logger *slog.Logger
}

// NewHeartbeatJob creates a heartbeat job
func NewHeartbeatJob(client *Client, sink Sink, logger *slog.Logger) *HeartbeatJob {
	return &HeartbeatJob{client: client, sink: sink, now: time.Now, logger: logger}
}

// Run appends one heartbeat line. API failures are recorded in the line
// and never returned.
func (j *HeartbeatJob) Run(ctx context.Context) error {
	line := j.now().Format(heartbeatLayout) + " CRM is alive"

	hello, err := j.client.Hello(ctx)
	if err != nil {
		j.logger.Warn("heartbeat query failed", failureSource(err), slog.String("error", err.Error()))
		line += " - API Error: " + err.Error()
	} else {
		line += " - API: " + hello
	}

	return j.sink.WriteLine(line)
}

// LowStockJob triggers replenishment and records each updated product
type LowStockJob struct {
	client *Client
	sink   Sink
	now    func() time.Time
	logger *slog.Logger
}

// NewLowStockJob creates a low-stock job
func NewLowStockJob(client *Client, sink Sink, logger *slog.Logger) *LowStockJob {
	return &LowStockJob{client: client, sink: sink, now: time.Now, logger: logger}
}

// Run replenishes low stock. API failures are recorded as an Error line and
// never returned.
func (j *LowStockJob) Run(ctx context.Context) error {
	timestamp := j.now().Format(heartbeatLayout)

	reply, err := j.client.ReplenishLowStock(ctx)
	if err != nil {
		j.logger.Warn("low stock replenishment failed", failureSource(err), slog.String("error", err.Error()))
		return j.sink.WriteLine(fmt.Sprintf("%s - Error: %s", timestamp, err.Error()))
	}

	if len(reply.UpdatedProducts) == 0 {
		return j.sink.WriteLine(timestamp + " - No products updated")
	}

	for _, product := range reply.UpdatedProducts {
		if err := j.sink.WriteLine(fmt.Sprintf("%s - Updated %s: %d", timestamp, product.Name, product.Stock)); err != nil {
			return err
		}
	}

	j.logger.Info("low stock products logged", slog.Int("updated", len(reply.UpdatedProducts)))
	return nil
}

// OrderReminderJob records one reminder line per recent order
type OrderReminderJob struct {
	client *Client
	sink   Sink
	window time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewOrderReminderJob creates a reminder job covering orders placed within
// window of the run
func NewOrderReminderJob(client *Client, sink Sink, window time.Duration, logger *slog.Logger) *OrderReminderJob {
	return &OrderReminderJob{client: client, sink: sink, window: window, now: time.Now, logger: logger}
}

// Run fetches recent orders and logs them. A fetch failure fails the run.
func (j *OrderReminderJob) Run(ctx context.Context) error {
	now := j.now()

	orders, err := j.client.OrdersSince(ctx, now.Add(-j.window))
	if err != nil {
		return fmt.Errorf("failed to fetch recent orders: %w", err)
	}

	timestamp := now.Format(reminderLayout)
	for _, order := range orders {
		line := fmt.Sprintf("%s - Order ID: %d, Customer: %s", timestamp, order.ID, order.Customer.Email)
		if err := j.sink.WriteLine(line); err != nil {
			return err
		}
	}

	j.logger.Info("order reminders processed", slog.Int("orders", len(orders)))
	return nil
}

// failureSource tags a failed call as an API reply or a transport error
func failureSource(err error) slog.Attr {
	if IsAPIError(err) {
		return slog.String("source", "api")
	}
	return slog.String("source", "transport")
}

// Registry maps job kinds to their runners
type Registry map[string]Job

// Settings configures the three standard jobs
type Settings struct {
	Client         ClientConfig
	HeartbeatLog   string
	LowStockLog    string
	ReminderLog    string
	ReminderWindow time.Duration
}

// SettingsFromConfig maps the loaded job configuration onto Settings
func SettingsFromConfig(cfg config.JobsConfig) Settings {
	return Settings{
		Client: ClientConfig{
			Endpoint: cfg.APIEndpoint,
			Timeout:  cfg.Timeout,
			Retries:  cfg.Retries,
		},
		HeartbeatLog:   cfg.HeartbeatLog,
		LowStockLog:    cfg.LowStockLog,
		ReminderLog:    cfg.ReminderLog,
		ReminderWindow: cfg.ReminderWindow,
	}
}

// NewRegistry builds the standard jobs sharing one API client
func NewRegistry(settings Settings, logger *slog.Logger) Registry {
	client := NewClient(settings.Client)
	return Registry{
		models.JobHeartbeat:      NewHeartbeatJob(client, NewFileSink(settings.HeartbeatLog), logger),
		models.JobLowStock:       NewLowStockJob(client, NewFileSink(settings.LowStockLog), logger),
		models.JobOrderReminders: NewOrderReminderJob(client, NewFileSink(settings.ReminderLog), settings.ReminderWindow, logger),
	}
}

// Run executes the job registered for kind
func (r Registry) Run(ctx context.Context, kind string) error {
	job, ok := r[kind]
	if !ok {
		return fmt.Errorf("unknown job kind %q", kind)
	}
	return job.Run(ctx)
}
