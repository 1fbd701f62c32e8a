package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HelloGreeting is returned by the liveness query
const HelloGreeting = "Hello, CRM!"

// Pinger is anything whose reachability can be checked
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db          Pinger
	queueClient Pinger
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler. queueClient may be nil.
func NewHealthHandler(db Pinger, queueClient Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		queueClient: queueClient,
		logger:      logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// HelloResponse is the body of GET /hello
type HelloResponse struct {
	Hello string `json:"hello"`
}

// Hello handles GET /hello
func (h *HealthHandler) Hello(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, HelloResponse{Hello: HelloGreeting})
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:   "healthy",
		Services: make(map[string]string),
	}

	// Check database
	if err := h.db.Health(ctx); err != nil {
		h.logger.Error("database health check failed", slog.String("error", err.Error()))
		response.Status = "unhealthy"
		response.Services["database"] = "unhealthy"
	} else {
		response.Services["database"] = "healthy"
	}

	// Check queue
	if h.queueClient != nil {
		if err := h.queueClient.Health(ctx); err != nil {
			h.logger.Error("queue health check failed", slog.String("error", err.Error()))
			response.Status = "unhealthy"
			response.Services["queue"] = "unhealthy"
		} else {
			response.Services["queue"] = "healthy"
		}
	} else {
		response.Services["queue"] = "not_configured"
	}

	// Return appropriate status code
	if response.Status == "healthy" {
		respondSuccess(w, response)
	} else {
		respondJSON(w, http.StatusServiceUnavailable, response)
	}
}
