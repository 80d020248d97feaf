package security

import (
	"context"
	"sync"
	"time"

	corelog "gatehouse/internal/core/log"
)

// LoginGuardConfig configures a LoginGuard. MaxFailures 0 disables it.
type LoginGuardConfig struct {
	MaxFailures  int
	Window       time.Duration
	LockDuration time.Duration
}

func DefaultLoginGuardConfig() LoginGuardConfig {
	return LoginGuardConfig{MaxFailures: 5, Window: 5 * time.Minute, LockDuration: 15 * time.Minute}
}

type failureRecord struct {
	failures    []time.Time
	lockedUntil time.Time
}

// LoginGuard locks a login key after repeated failed attempts within a
// window. Keys are usually the submitted username.
type LoginGuard struct {
	cfg LoginGuardConfig
	now func() time.Time

	mu      sync.Mutex
	records map[string]*failureRecord
}

func NewLoginGuard(cfg LoginGuardConfig) *LoginGuard {
	return &LoginGuard{cfg: cfg, now: time.Now, records: make(map[string]*failureRecord)}
}

func (g *LoginGuard) enabled() bool { return g != nil && g.cfg.MaxFailures > 0 }

// Locked reports whether key is locked and for how much longer.
func (g *LoginGuard) Locked(key string) (bool, time.Duration) {
	if !g.enabled() {
		return false, 0
	}
	now := g.now()
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.records[key]
	if !ok || !now.Before(rec.lockedUntil) {
		return false, 0
	}
	return true, rec.lockedUntil.Sub(now)
}

// Fail records a failed attempt and reports whether key is now locked.
func (g *LoginGuard) Fail(key string) bool {
	if !g.enabled() {
		return false
	}
	now := g.now()
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[key]
	if !ok {
		rec = &failureRecord{}
		g.records[key] = rec
	}
	cutoff := now.Add(-g.cfg.Window)
	kept := rec.failures[:0]
	for _, f := range rec.failures {
		if f.After(cutoff) {
			kept = append(kept, f)
		}
	}
	rec.failures = append(kept, now)

	if len(rec.failures) >= g.cfg.MaxFailures {
		rec.lockedUntil = now.Add(g.cfg.LockDuration)
		rec.failures = nil
		corelog.Warnf("login guard: %q locked for %s after %d failures", key, g.cfg.LockDuration, g.cfg.MaxFailures)
		return true
	}
	return false
}

// Succeed clears the failure history of key.
func (g *LoginGuard) Succeed(key string) {
	if !g.enabled() {
		return
	}
	g.mu.Lock()
	delete(g.records, key)
	g.mu.Unlock()
}

// Cleanup drops keys that are neither locked nor holding a failure inside
// the window and returns how many.
func (g *LoginGuard) Cleanup() int {
	if !g.enabled() {
		return 0
	}
	now := g.now()
	cutoff := now.Add(-g.cfg.Window)
	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	for k, rec := range g.records {
		if now.Before(rec.lockedUntil) {
			continue
		}
		if n := len(rec.failures); n > 0 && rec.failures[n-1].After(cutoff) {
			continue
		}
		delete(g.records, k)
		removed++
	}
	return removed
}

func (g *LoginGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}

// Run cleans up stale keys every interval until ctx is done.
func (g *LoginGuard) Run(ctx context.Context, interval time.Duration) {
	if !g.enabled() {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := g.Cleanup(); n > 0 {
				corelog.Debugf("login guard: dropped %d stale keys", n)
			}
		}
	}
}
