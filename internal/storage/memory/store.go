package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yndnr/kiwi/internal/core/domain"
)

// Store is the expiring key/value store shared by all connections.
type Store struct {
	mu      sync.Mutex
	entries map[string]*domain.Entry

	now      func() time.Time
	onExpire func(key string)
}

// Option configures the Store.
type Option func(*Store)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithExpireHook registers fn to be called after an expired key is evicted.
// fn runs outside the store lock.
func WithExpireHook(fn func(key string)) Option {
	return func(s *Store) {
		s.onExpire = fn
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*domain.Entry),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get returns a copy of the entry stored under key.
//
// It returns domain.ErrKeyNotFound if the key is absent. If the key is
// present but expired, the entry is removed and domain.ErrKeyExpired is
// returned.
func (s *Store) Get(_ context.Context, key string) (*domain.Entry, error) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrKeyNotFound
	}
	if entry.IsExpired(s.now()) {
		delete(s.entries, key)
		s.mu.Unlock()

		if s.onExpire != nil {
			s.onExpire(key)
		}
		return nil, domain.ErrKeyExpired
	}
	clone := entry.Clone()
	s.mu.Unlock()

	return clone, nil
}

// Set stores value under key, replacing any previous entry.
// A ttl <= 0 stores the key without expiry.
func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) (*domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.NewEntry(key, value, ttl, s.now())
	s.entries[key] = entry

	return entry.Clone(), nil
}

// Delete removes key. It returns domain.ErrKeyNotFound if the key was absent
// or already expired; an expired key is evicted either way.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return domain.ErrKeyNotFound
	}
	delete(s.entries, key)
	expired := entry.IsExpired(s.now())
	s.mu.Unlock()

	if expired {
		if s.onExpire != nil {
			s.onExpire(key)
		}
		return domain.ErrKeyNotFound
	}
	return nil
}

// Len returns the number of stored entries, including expired entries
// that have not been evicted yet.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
