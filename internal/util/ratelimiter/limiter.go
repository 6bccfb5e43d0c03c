package ratelimiter

import (
	"sync"
	"time"
)

// Limiter provides time-based rate limiting per key.
// It allows one action per key per interval and is safe for concurrent use.
type Limiter struct {
	mu          sync.Mutex
	interval    time.Duration
	now         func() time.Time
	lastAllowed map[string]time.Time
}

// New creates a new rate limiter with the specified interval.
// Actions will be rate-limited to at most one per key per interval.
func New(interval time.Duration) *Limiter {
	return NewWithClock(interval, time.Now)
}

// NewWithClock creates a rate limiter that reads the current time from now
func NewWithClock(interval time.Duration, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		interval:    interval,
		now:         now,
		lastAllowed: make(map[string]time.Time),
	}
}

// Allow checks if an action for key is allowed at this time.
// Returns true if allowed (and records this as the last allowed time),
// or false with the remaining wait duration if rate-limited.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	last, seen := l.lastAllowed[key]
	if !seen {
		l.lastAllowed[key] = now
		return true, 0
	}

	timeSinceLast := now.Sub(last)
	if timeSinceLast >= l.interval {
		l.lastAllowed[key] = now
		return true, 0
	}

	return false, l.interval - timeSinceLast
}

// Record marks an action for key as allowed at the given time if it is later
// than the one already known. Used to restore state from persisted records.
func (l *Limiter) Record(key string, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.lastAllowed[key]; !ok || at.After(last) {
		l.lastAllowed[key] = at
	}
}

// Reset clears the state of key, allowing its next action immediately.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.lastAllowed, key)
	l.mu.Unlock()
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastAllowed)
}

// Interval returns the configured rate limit interval.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
