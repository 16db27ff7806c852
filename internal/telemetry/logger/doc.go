// Package logger provides structured logging for kiwi.
//
// This package wraps log/slog behind a small Logger interface:
//
//   - logger.go: logger construction, levels and the process default
//   - context.go: request and connection ID propagation
//   - redact.go: masking of stored values and credentials
//
// Stored values are user data. Attributes named like a value or payload
// are replaced with their length, and any long string attribute is
// truncated, so a debug log of a SET never carries the payload itself.
package logger
