package security

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	corelog "gatehouse/internal/core/log"
)

// RateLimitConfig configures a RateLimiter.
type RateLimitConfig struct {
	Rate  float64       // tokens per second
	Burst int           // bucket size
	TTL   time.Duration // idle keys are dropped after TTL
}

// DefaultRateLimitConfig suits the credential endpoints.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Rate: 5, Burst: 10, TTL: 10 * time.Minute}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key, usually a client IP.
type RateLimiter struct {
	cfg RateLimitConfig
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	d := DefaultRateLimitConfig()
	if cfg.Rate <= 0 {
		cfg.Rate = d.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = d.Burst
	}
	if cfg.TTL <= 0 {
		cfg.TTL = d.TTL
	}
	return &RateLimiter{cfg: cfg, now: time.Now, entries: make(map[string]*limiterEntry)}
}

// Allow takes one token for key.
func (r *RateLimiter) Allow(key string) bool {
	now := r.now()
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r.cfg.Rate), r.cfg.Burst)}
		r.entries[key] = e
	}
	e.lastSeen = now
	r.mu.Unlock()
	return e.limiter.AllowN(now, 1)
}

// Cleanup drops keys idle for longer than TTL and returns how many.
func (r *RateLimiter) Cleanup() int {
	cutoff := r.now().Add(-r.cfg.TTL)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for k, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, k)
			removed++
		}
	}
	return removed
}

func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run cleans up idle keys every interval until ctx is done.
func (r *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Cleanup(); n > 0 {
				corelog.Debugf("rate limiter: dropped %d idle keys", n)
			}
		}
	}
}
