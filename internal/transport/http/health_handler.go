package http

import (
	"net/http"

	"github.com/go-chi/render"

	"ratedesk/internal/services"
)

// HealthSource reports service readiness.
type HealthSource interface {
	Health() services.HealthStatus
}

// HealthHandler serves GET /healthz.
type HealthHandler struct {
	source HealthSource
}

// NewHealthHandler creates the handler.
func NewHealthHandler(source HealthSource) *HealthHandler {
	return &HealthHandler{source: source}
}

// GetHealth returns loaded-state details with a 200, or 503 when no
// Master rows are loaded.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.source.Health()
	if status.MasterRows == 0 {
		status.Status = "degraded"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}
