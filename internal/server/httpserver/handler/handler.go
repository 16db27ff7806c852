package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/yndnr/kiwi/internal/core/domain"
	"github.com/yndnr/kiwi/internal/telemetry/logger"
)

// KV is the subset of service.KVService the handlers use.
type KV interface {
	Get(ctx context.Context, key string) (*domain.Entry, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) (*domain.Entry, error)
	Delete(ctx context.Context, key string) error
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	kv       KV
	logger   logger.Logger
	now      func() time.Time
	mux      *http.ServeMux
	draining atomic.Bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock sets the time source used for the remaining TTL in entry
// responses. It should match the store's clock.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// New creates a new Handler backed by kv.
func New(kv KV, log logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{
		kv:     kv,
		logger: log,
		now:    time.Now,
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// SetDraining makes /ready report 503 so load balancers stop routing here.
func (h *Handler) SetDraining(v bool) {
	h.draining.Store(v)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("POST /set", h.handleSet)
	h.mux.HandleFunc("POST /get", h.handleGet)
	h.mux.HandleFunc("POST /del", h.handleDelete)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	WriteError(w, r, status, code, message, details)
}

// WriteError writes an error envelope. Middleware uses it too.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	response := NewErrorResponse(getRequestID(r), code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// getRequestID returns the ID set by the RequestID middleware, falling
// back to the inbound header.
func getRequestID(r *http.Request) string {
	if reqID := logger.RequestIDFromContext(r.Context()); reqID != "" {
		return reqID
	}
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if de, ok := domain.AsDomainError(err); ok {
		var details any
		if de.Details != "" {
			details = de.Details
		}
		h.writeError(w, r, de.Status(), de.Code, de.Message, details)
		return
	}

	logger.L(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, "internal server error", nil)
}
