package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/kiwi/internal/core/domain"
)

// DefaultLimiterIdle is how long a client may stay silent before its
// limiter is dropped. Buckets refill in one second, so a dropped limiter
// is indistinguishable from the fresh one that replaces it.
const DefaultLimiterIdle = time.Minute

// RateLimiterRegistry manages one token bucket per client key (usually the
// remote IP). A limit of 0 disables limiting.
type RateLimiterRegistry struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     int
	idle      time.Duration
	now       func() time.Time
	nextSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterOption configures a RateLimiterRegistry.
type RateLimiterOption func(*RateLimiterRegistry)

// WithLimiterIdle overrides DefaultLimiterIdle.
func WithLimiterIdle(d time.Duration) RateLimiterOption {
	return func(r *RateLimiterRegistry) {
		r.idle = d
	}
}

// WithLimiterClock sets the time source. Used by tests.
func WithLimiterClock(now func() time.Time) RateLimiterOption {
	return func(r *RateLimiterRegistry) {
		r.now = now
	}
}

// NewRateLimiterRegistry creates a registry allowing limit requests per
// second per client, with a burst of the same size.
func NewRateLimiterRegistry(limit int, opts ...RateLimiterOption) *RateLimiterRegistry {
	r := &RateLimiterRegistry{
		limiters: make(map[string]*clientLimiter),
		limit:    limit,
		idle:     DefaultLimiterIdle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled reports whether the registry limits anything.
func (r *RateLimiterRegistry) Enabled() bool {
	return r != nil && r.limit > 0
}

// limiterFor returns the limiter for client, creating it if needed, and
// drops limiters idle for longer than r.idle at most once per r.idle.
func (r *RateLimiterRegistry) limiterFor(client string, now time.Time) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !now.Before(r.nextSweep) {
		for k, cl := range r.limiters {
			if now.Sub(cl.lastSeen) >= r.idle {
				delete(r.limiters, k)
			}
		}
		r.nextSweep = now.Add(r.idle)
	}

	cl, ok := r.limiters[client]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(r.limit), r.limit)}
		r.limiters[client] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Allow consumes one token for client. It returns domain.ErrRateLimited
// with a retry hint when the bucket is empty.
func (r *RateLimiterRegistry) Allow(client string) error {
	if !r.Enabled() {
		return nil
	}

	now := r.now()
	limiter := r.limiterFor(client, now)
	if limiter.AllowN(now, 1) {
		return nil
	}

	reservation := limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	reservation.CancelAt(now)

	return domain.ErrRateLimited.WithDetails("retry after " + delay.String())
}

// Len returns the number of tracked clients.
func (r *RateLimiterRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.limiters)
}
