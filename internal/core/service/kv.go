package service

import (
	"context"
	"errors"
	"time"

	"github.com/yndnr/kiwi/internal/core/domain"
)

// Repository defines the storage interface for key/value operations.
//
// Implementations must evict an expired entry on Get and report it with
// domain.ErrKeyExpired.
type Repository interface {
	// Get retrieves the entry stored under key.
	Get(ctx context.Context, key string) (*domain.Entry, error)

	// Set stores value under key, replacing any previous entry.
	// ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) (*domain.Entry, error)

	// Delete removes key, returning domain.ErrKeyNotFound if absent.
	Delete(ctx context.Context, key string) error
}

// KVService implements the client-visible key/value operations.
type KVService struct {
	repo Repository
}

// NewKVService creates a new KVService.
func NewKVService(repo Repository) *KVService {
	return &KVService{repo: repo}
}

// Get returns the live entry for key or domain.ErrKeyNotFound.
// Expired entries are reported as not found.
func (s *KVService) Get(ctx context.Context, key string) (*domain.Entry, error) {
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrKeyExpired) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return entry, nil
}

// Set stores value under key. A zero ttl stores the key without expiry;
// a negative ttl is rejected.
func (s *KVService) Set(ctx context.Context, key, value string, ttl time.Duration) (*domain.Entry, error) {
	if ttl < 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("ttl must not be negative")
	}
	return s.repo.Set(ctx, key, value, ttl)
}

// Delete removes key or returns domain.ErrKeyNotFound.
func (s *KVService) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// DeleteKeys removes each key in order and returns how many were removed.
// Absent keys are skipped; any other error stops the loop.
func (s *KVService) DeleteKeys(ctx context.Context, keys ...string) (int, error) {
	removed := 0
	for _, key := range keys {
		err := s.repo.Delete(ctx, key)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, domain.ErrKeyNotFound):
		default:
			return removed, err
		}
	}
	return removed, nil
}
