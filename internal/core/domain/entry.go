package domain

import "time"

// Entry is one record of the key/value store.
//
// An Entry is replaced as a whole on every write and never mutated in place
// while it is owned by the store.
type Entry struct {
	Key   string
	Value string

	// HasExpiry is true when a positive TTL was supplied on write.
	HasExpiry bool

	// CreatedAt is the time of the last write.
	CreatedAt time.Time

	// ExpiresAt is CreatedAt plus the TTL. It equals CreatedAt when no TTL
	// was given and is only meaningful when HasExpiry is true.
	ExpiresAt time.Time
}

// NewEntry builds an entry written at now. A ttl <= 0 means the entry never expires.
func NewEntry(key, value string, ttl time.Duration, now time.Time) *Entry {
	if ttl < 0 {
		ttl = 0
	}
	return &Entry{
		Key:       key,
		Value:     value,
		HasExpiry: ttl > 0,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the entry is past its expiry at now.
// Entries without expiry never expire; others expire strictly after ExpiresAt.
func (e *Entry) IsExpired(now time.Time) bool {
	if !e.HasExpiry {
		return false
	}
	return now.After(e.ExpiresAt)
}

// TTL returns the remaining time to live at now.
// ok is false for entries without expiry.
func (e *Entry) TTL(now time.Time) (remaining time.Duration, ok bool) {
	if !e.HasExpiry {
		return 0, false
	}
	remaining = e.ExpiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Clone returns a copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}
