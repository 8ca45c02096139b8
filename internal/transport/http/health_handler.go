package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"retailfx/pkg/contracts"
)

// HealthHandler reports liveness and whether a published run is available.
type HealthHandler struct {
	service FeatureServiceInterface
	logger  *slog.Logger
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service FeatureServiceInterface, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
		started: time.Now(),
	}
}

// LivenessCheck handles GET /healthz
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"version": contracts.GetVersionInfo(),
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// ReadinessCheck handles GET /readyz. It is ready once a completed run has
// been published.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Manifest(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "not ready", slog.String("error", err.Error()))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":      "ready",
		"run_id":      m.RunID,
		"finished_at": m.FinishedAt,
		"rows":        m.Input.Rows,
	})
}
