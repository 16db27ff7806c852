package logger

import (
	"log/slog"
	"strings"
	"testing"
)

func TestRedact_PayloadSummarized(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	l.Info("set", "key", "user:1", "value", "hunter2-is-my-value")

	entry := decodeLine(t, buf)
	if entry["key"] != "user:1" {
		t.Errorf("key = %v, want user:1 (keys are not redacted)", entry["key"])
	}
	if entry["value"] != "<19 bytes>" {
		t.Errorf("value = %v, want <19 bytes>", entry["value"])
	}
}

func TestRedact_Credentials(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	l.Info("login", "password", "p4ss", "auth_header", "Bearer x", "empty_secret", "")

	entry := decodeLine(t, buf)
	if entry["password"] != redactedValue {
		t.Errorf("password = %v", entry["password"])
	}
	if entry["auth_header"] != redactedValue {
		t.Errorf("auth_header = %v", entry["auth_header"])
	}
	if entry["empty_secret"] != "" {
		t.Errorf("empty_secret = %v, want empty", entry["empty_secret"])
	}
}

func TestRedact_LongStringTruncated(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	long := strings.Repeat("x", MaxAttrLen+10)
	l.Info("frame", "raw", long)

	entry := decodeLine(t, buf)
	want := strings.Repeat("x", MaxAttrLen) + "...(10 more bytes)"
	if entry["raw"] != want {
		t.Errorf("raw = %v, want truncated", entry["raw"])
	}
}

func TestRedact_Group(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	l.Info("nested", slog.Group("request", "key", "k", "value", "v"))

	entry := decodeLine(t, buf)
	group, ok := entry["request"].(map[string]any)
	if !ok {
		t.Fatalf("request group missing: %v", entry)
	}
	if group["value"] != "<1 bytes>" {
		t.Errorf("request.value = %v, want <1 bytes>", group["value"])
	}
	if group["key"] != "k" {
		t.Errorf("request.key = %v, want k", group["key"])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"abcdef", 3, "abc...(3 more bytes)"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"password", true},
		{"TLS_SECRET", true},
		{"key", false},
		{"conn_id", false},
	}

	for _, tt := range tests {
		if got := IsSensitiveKey(tt.key); got != tt.want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestIsPayloadKey(t *testing.T) {
	if !IsPayloadKey("Value") || !IsPayloadKey("request_body") {
		t.Error("payload keys not detected")
	}
	if IsPayloadKey("key") {
		t.Error("key treated as payload")
	}
}
