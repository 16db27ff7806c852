package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/yndnr/kiwi/internal/core/domain"
	"github.com/yndnr/kiwi/internal/telemetry/logger"
)

const (
	// maxBodyBytes bounds a JSON request body.
	maxBodyBytes = 8 << 20

	// maxTTLSeconds is the largest ttl that fits a time.Duration.
	maxTTLSeconds = math.MaxInt64 / int64(time.Second)
)

// handleSet handles POST /set.
func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Key == nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "key is required", nil)
		return
	}
	if req.TTL < 0 {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "ttl must not be negative", nil)
		return
	}
	if req.TTL > maxTTLSeconds {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "ttl out of range", map[string]int64{"max": maxTTLSeconds})
		return
	}

	entry, err := h.kv.Set(r.Context(), *req.Key, req.Value, time.Duration(req.TTL)*time.Second)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	logger.L(r.Context()).Debug("key set", "key", entry.Key, "value", entry.Value, "ttl_seconds", req.TTL)
	h.writeJSON(w, r, http.StatusOK, entryToResponse(entry, h.now()))
}

// handleGet handles POST /get.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Key == nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "key is required", nil)
		return
	}

	entry, err := h.kv.Get(r.Context(), *req.Key)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, entryToResponse(entry, h.now()))
}

// handleDelete handles POST /del.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Key == nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "key is required", nil)
		return
	}

	if err := h.kv.Delete(r.Context(), *req.Key); err != nil {
		if errors.Is(err, domain.ErrKeyExpired) {
			err = domain.ErrKeyNotFound
		}
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, "OK")
}

// decode reads a JSON body into dst. On failure it writes a 400 and
// returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "invalid request body", err.Error())
		return false
	}
	return true
}
