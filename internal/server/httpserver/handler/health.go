package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/kiwi/internal/core/domain"
	"github.com/yndnr/kiwi/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: buildinfo.Get().Version,
	})
}

// handleReady handles GET /ready. The process is ready once the listeners
// are bound, so this only reports ready while the handler is not draining.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.draining.Load() {
		h.writeError(w, r, http.StatusServiceUnavailable, domain.ErrUnavailable.Code, domain.ErrUnavailable.Message, "shutting down")
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
