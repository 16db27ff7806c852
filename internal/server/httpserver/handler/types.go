package handler

import (
	"time"

	"github.com/yndnr/kiwi/internal/core/domain"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// SetRequest is the request body for POST /set.
type SetRequest struct {
	Key   *string `json:"key"`
	Value string  `json:"value"`
	// TTL is in seconds. 0 stores the key without expiry.
	TTL int64 `json:"ttl,omitempty"`
}

// KeyRequest is the request body for POST /get and POST /del.
type KeyRequest struct {
	Key *string `json:"key"`
}

// EntryResponse represents a stored entry. Times are Unix seconds. For a
// key without expiry Exp is false, ExpAt equals CreatedAt and TTL is -1.
type EntryResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Exp       bool   `json:"exp"`
	CreatedAt int64  `json:"created_at"`
	ExpAt     int64  `json:"exp_at"`
	// TTL is the remaining lifetime in whole seconds, rounded up.
	TTL int64 `json:"ttl"`
}

func entryToResponse(e *domain.Entry, now time.Time) EntryResponse {
	resp := EntryResponse{
		Key:       e.Key,
		Value:     e.Value,
		CreatedAt: e.CreatedAt.Unix(),
		ExpAt:     e.CreatedAt.Unix(),
		TTL:       -1,
	}
	if remaining, ok := e.TTL(now); ok {
		resp.Exp = true
		resp.ExpAt = e.ExpiresAt.Unix()
		resp.TTL = int64(remaining / time.Second)
		if remaining%time.Second != 0 {
			resp.TTL++
		}
	}
	return resp
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Time    string `json:"time"`
	Version string `json:"version,omitempty"`
}
