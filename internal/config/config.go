package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Queue    QueueConfig
	API      APIConfig
	Worker   WorkerConfig
	Jobs     JobsConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the database file used by the sqlite3 driver
	Path string
}

// QueueConfig holds queue configuration (Redis)
type QueueConfig struct {
	// Backend is "redis" or "memory". The memory queue only works when the
	// scheduler and consumer share a process.
	Backend   string
	RedisURL  string
	QueueName string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	Concurrency      int
	MaxRetryCount    int
	SchedulerEnabled bool
}

// JobsConfig holds the scheduled job settings
type JobsConfig struct {
	APIEndpoint string
	Timeout     time.Duration
	Retries     int

	HeartbeatLog string
	LowStockLog  string
	ReminderLog  string

	HeartbeatSchedule string
	LowStockSchedule  string
	ReminderSchedule  string
	ReminderWindow    time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	workerConcurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	maxRetryCount, err := strconv.Atoi(getEnv("MAX_RETRY_COUNT", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_RETRY_COUNT: %w", err)
	}

	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}

	jobTimeout, err := time.ParseDuration(getEnv("JOB_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOB_TIMEOUT: %w", err)
	}

	jobRetries, err := strconv.Atoi(getEnv("JOB_RETRIES", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOB_RETRIES: %w", err)
	}

	reminderWindow, err := time.ParseDuration(getEnv("REMINDER_WINDOW", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_WINDOW: %w", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "crm"),
			Password: getEnv("DB_PASSWORD", "crm"),
			DBName:   getEnv("DB_NAME", "crm"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "crm.db"),
		},
		Queue: QueueConfig{
			Backend:   getEnv("QUEUE_BACKEND", "redis"),
			RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379/0"),
			QueueName: getEnv("QUEUE_NAME", "crm_jobs"),
		},
		API: APIConfig{
			Port: apiPort,
		},
		Worker: WorkerConfig{
			Concurrency:      workerConcurrency,
			MaxRetryCount:    maxRetryCount,
			SchedulerEnabled: schedulerEnabled,
		},
		Jobs: JobsConfig{
			APIEndpoint:       getEnv("CRM_API_ENDPOINT", fmt.Sprintf("http://localhost:%d", apiPort)),
			Timeout:           jobTimeout,
			Retries:           jobRetries,
			HeartbeatLog:      getEnv("HEARTBEAT_LOG", "/tmp/crm_heartbeat_log.txt"),
			LowStockLog:       getEnv("LOW_STOCK_LOG", "/tmp/low_stock_updates_log.txt"),
			ReminderLog:       getEnv("REMINDER_LOG", "/tmp/order_reminders_log.txt"),
			HeartbeatSchedule: getEnv("HEARTBEAT_SCHEDULE", "*/5 * * * *"),
			LowStockSchedule:  getEnv("LOW_STOCK_SCHEDULE", "0 */12 * * *"),
			ReminderSchedule:  getEnv("REMINDER_SCHEDULE", "0 8 * * *"),
			ReminderWindow:    reminderWindow,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be caught while parsing
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("invalid DB_DRIVER: %q (must be 'postgres' or 'sqlite3')", c.Database.Driver)
	}
	switch c.Queue.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("invalid QUEUE_BACKEND: %q (must be 'redis' or 'memory')", c.Queue.Backend)
	}
	if c.Jobs.Retries < 0 {
		return fmt.Errorf("invalid JOB_RETRIES: %d", c.Jobs.Retries)
	}
	if c.Jobs.ReminderWindow <= 0 {
		return fmt.Errorf("invalid REMINDER_WINDOW: %s", c.Jobs.ReminderWindow)
	}
	return nil
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite3" {
		return d.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
