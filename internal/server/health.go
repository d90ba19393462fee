package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger is a dependency that can report its connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogChecker reports whether the scheme catalog is readable
type CatalogChecker interface {
	Check() error
}

// HealthHandler provides HTTP health check endpoints
type HealthHandler struct {
	sessions Pinger
	catalog  CatalogChecker
	logger   *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sessions Pinger, catalog CatalogChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		catalog:  catalog,
		logger:   logger,
	}
}

// Register registers the health routes
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealth handles the /health endpoint
func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string)

	if err := h.sessions.Ping(ctx); err != nil {
		checks["sessions"] = fmt.Sprintf("unhealthy: %v", err)
		h.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Checks: checks,
		})
		return
	}
	checks["sessions"] = "healthy"

	h.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Checks: checks,
	})
}

// handleReady handles the /ready endpoint
func (h *HealthHandler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string)
	ready := true

	if err := h.sessions.Ping(ctx); err != nil {
		checks["sessions"] = fmt.Sprintf("not ready: %v", err)
		ready = false
	} else {
		checks["sessions"] = "ready"
	}

	if err := h.catalog.Check(); err != nil {
		checks["catalog"] = fmt.Sprintf("not ready: %v", err)
		ready = false
	} else {
		checks["catalog"] = "ready"
	}

	if !ready {
		h.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "not ready",
			Checks: checks,
		})
		return
	}

	h.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ready",
		Checks: checks,
	})
}

// respondJSON writes a JSON response
func (h *HealthHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
