// Package httpserver provides the HTTP/JSON facade for kiwi.
//
// It exposes the same key/value operations as the Redis listener over
// plain request/response calls, using stdlib net/http:
//
//   - Key endpoints: POST /set, POST /get, POST /del
//   - Probes: GET /health, GET /ready
//   - Metrics: GET /metrics (Prometheus text format)
//
// Every route passes through RequestID, Recover, ClientIP, AccessLog and
// Metrics middleware; key endpoints are also rate limited per client IP.
package httpserver
