// Package handler provides the HTTP/JSON handlers for kiwi.
//
// Endpoints:
//
//   - POST /set  {"key", "value", "ttl"}  store a key (ttl in seconds, 0 = no expiry)
//   - POST /get  {"key"}                  fetch a live key
//   - POST /del  {"key"}                  remove a key
//   - GET /health, GET /ready             probes
//
// Every JSON body is wrapped in the Response envelope.
package handler
