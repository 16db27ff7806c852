package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Attribute names whose values are user payload. They are logged as a
// length summary only.
var payloadKeyPatterns = []string{
	"value",
	"payload",
	"body",
}

// Attribute names whose values are credentials. They are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// MaxAttrLen is the longest string attribute logged verbatim.
const MaxAttrLen = 256

// redactSensitive rewrites one attribute before it is written.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		strVal := a.Value.String()
		if strVal == "" {
			return a
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if IsPayloadKey(a.Key) {
			return slog.String(a.Key, Summarize(strVal))
		}
		if len(strVal) > MaxAttrLen {
			return slog.String(a.Key, Truncate(strVal, MaxAttrLen))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// Summarize replaces a payload with its size.
func Summarize(value string) string {
	return fmt.Sprintf("<%d bytes>", len(value))
}

// Truncate shortens value to at most max bytes plus a marker naming the
// number of bytes dropped.
func Truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return fmt.Sprintf("%s...(%d more bytes)", value[:max], len(value)-max)
}

// IsSensitiveKey checks if a key name suggests credential content.
func IsSensitiveKey(key string) bool {
	return containsAny(strings.ToLower(key), sensitiveKeyPatterns)
}

// IsPayloadKey checks if a key name suggests stored user data.
func IsPayloadKey(key string) bool {
	return containsAny(strings.ToLower(key), payloadKeyPatterns)
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
