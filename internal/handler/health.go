package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/osse101/NexusMissions_Go/internal/database"
)

const readinessTimeout = 2 * time.Second

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker defines the interface for components that can report health
type HealthChecker interface {
	Name() string
	CheckHealth(ctx context.Context) error
}

// HealthCheckFunc adapts a ping function into a named HealthChecker
type HealthCheckFunc struct {
	Component string
	Check     func(ctx context.Context) error
}

// Name returns the component name
func (f HealthCheckFunc) Name() string { return f.Component }

// CheckHealth runs the check
func (f HealthCheckFunc) CheckHealth(ctx context.Context) error { return f.Check(ctx) }

// HandleHealthz provides a basic liveness check
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz reports ready only when the database and every extra
// checker (the alert store, for one) respond within the timeout
func HandleReadyz(dbPool database.Pool, checkers ...HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			slog.Error(LogMsgReadinessFailed, "component", "database", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Message: "database connection failed",
			})
			return
		}

		for _, c := range checkers {
			if err := c.CheckHealth(ctx); err != nil {
				slog.Error(LogMsgReadinessFailed, "component", c.Name(), "error", err)
				respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
					Status:  "unavailable",
					Message: c.Name() + " check failed",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
