package domain

import (
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name          string
		ttl           time.Duration
		wantHasExpiry bool
		wantExpiresAt time.Time
	}{
		{"no ttl", 0, false, now},
		{"negative ttl", -time.Second, false, now},
		{"positive ttl", 10 * time.Second, true, now.Add(10 * time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEntry("k", "v", tt.ttl, now)
			if e.Key != "k" || e.Value != "v" {
				t.Errorf("entry = %+v", e)
			}
			if e.HasExpiry != tt.wantHasExpiry {
				t.Errorf("HasExpiry = %v, want %v", e.HasExpiry, tt.wantHasExpiry)
			}
			if !e.CreatedAt.Equal(now) {
				t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, now)
			}
			if !e.ExpiresAt.Equal(tt.wantExpiresAt) {
				t.Errorf("ExpiresAt = %v, want %v", e.ExpiresAt, tt.wantExpiresAt)
			}
		})
	}
}

// A zero TTL sets ExpiresAt == CreatedAt. Expiry must be decided by
// HasExpiry, otherwise such keys would vanish right after being written.
func TestEntry_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	e := NewEntry("k", "v", 0, now)

	for _, later := range []time.Duration{time.Nanosecond, time.Hour, 24 * 365 * time.Hour} {
		if e.IsExpired(now.Add(later)) {
			t.Errorf("IsExpired(+%v) = true for entry without ttl", later)
		}
	}
}

func TestEntry_IsExpired(t *testing.T) {
	now := time.Now()
	e := NewEntry("k", "v", time.Second, now)

	tests := []struct {
		at   time.Time
		want bool
	}{
		{now, false},
		{now.Add(999 * time.Millisecond), false},
		{now.Add(time.Second), false}, // expires strictly after ExpiresAt
		{now.Add(time.Second + time.Nanosecond), true},
	}

	for _, tt := range tests {
		if got := e.IsExpired(tt.at); got != tt.want {
			t.Errorf("IsExpired(%v) = %v, want %v", tt.at.Sub(now), got, tt.want)
		}
	}
}

func TestEntry_TTL(t *testing.T) {
	now := time.Now()

	if _, ok := NewEntry("k", "v", 0, now).TTL(now); ok {
		t.Error("TTL() ok = true for entry without ttl")
	}

	e := NewEntry("k", "v", 10*time.Second, now)
	if got, ok := e.TTL(now.Add(4 * time.Second)); !ok || got != 6*time.Second {
		t.Errorf("TTL() = (%v, %v), want (6s, true)", got, ok)
	}
	if got, _ := e.TTL(now.Add(time.Minute)); got != 0 {
		t.Errorf("TTL() after expiry = %v, want 0", got)
	}
}

func TestEntry_Clone(t *testing.T) {
	e := NewEntry("k", "v", time.Second, time.Now())
	c := e.Clone()
	c.Value = "changed"

	if e.Value != "v" {
		t.Error("Clone() shares state with original")
	}
}
