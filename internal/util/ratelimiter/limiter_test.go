package ratelimiter

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		delays   []time.Duration // clock advance before each Allow() call
		want     []bool          // expected Allow() results
	}{
		{
			name:     "first call always allowed",
			interval: time.Hour,
			delays:   []time.Duration{0},
			want:     []bool{true},
		},
		{
			name:     "second call immediately after is blocked",
			interval: time.Hour,
			delays:   []time.Duration{0, 0},
			want:     []bool{true, false},
		},
		{
			name:     "call after interval is allowed",
			interval: time.Hour,
			delays:   []time.Duration{0, time.Hour},
			want:     []bool{true, true},
		},
		{
			name:     "multiple rapid calls",
			interval: time.Hour,
			delays:   []time.Duration{0, time.Minute, time.Minute, time.Minute},
			want:     []bool{true, false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newClock()
			limiter := NewWithClock(tt.interval, clock.Now)

			for i, delay := range tt.delays {
				clock.Advance(delay)

				allowed, waitTime := limiter.Allow("e-1")
				if allowed != tt.want[i] {
					t.Errorf("call %d: Allow() = %v, want %v", i, allowed, tt.want[i])
				}

				if !allowed && waitTime <= 0 {
					t.Errorf("call %d: blocked but waitTime = %v, want > 0", i, waitTime)
				}

				if allowed && waitTime != 0 {
					t.Errorf("call %d: allowed but waitTime = %v, want 0", i, waitTime)
				}
			}
		})
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewWithClock(time.Hour, newClock().Now)

	if allowed, _ := limiter.Allow("e-1"); !allowed {
		t.Fatal("first call for e-1 should be allowed")
	}
	if allowed, _ := limiter.Allow("e-2"); !allowed {
		t.Fatal("first call for e-2 should be allowed")
	}
	if allowed, _ := limiter.Allow("e-1"); allowed {
		t.Fatal("second call for e-1 should be blocked")
	}
	if got := limiter.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestLimiter_Reset(t *testing.T) {
	limiter := NewWithClock(time.Second, newClock().Now)

	// First call - should be allowed
	allowed, _ := limiter.Allow("e-1")
	if !allowed {
		t.Fatal("first call should be allowed")
	}

	// Second call immediately - should be blocked
	allowed, _ = limiter.Allow("e-1")
	if allowed {
		t.Fatal("second call should be blocked")
	}

	limiter.Reset("e-1")

	// Call after reset - should be allowed immediately
	allowed, _ = limiter.Allow("e-1")
	if !allowed {
		t.Fatal("call after reset should be allowed")
	}
}

func TestLimiter_Record(t *testing.T) {
	clock := newClock()
	limiter := NewWithClock(7*24*time.Hour, clock.Now)

	limiter.Record("e-1", clock.Now().Add(-3*24*time.Hour))
	allowed, wait := limiter.Allow("e-1")
	if allowed {
		t.Fatal("call 3 days after a recorded action should be blocked")
	}
	if wait != 4*24*time.Hour {
		t.Errorf("waitTime = %v, want 96h", wait)
	}

	// An older record does not move the last allowed time back
	limiter.Record("e-1", clock.Now().Add(-30*24*time.Hour))
	if allowed, _ := limiter.Allow("e-1"); allowed {
		t.Error("older Record() reopened the key")
	}

	limiter.Record("e-2", clock.Now().Add(-8*24*time.Hour))
	if allowed, _ := limiter.Allow("e-2"); !allowed {
		t.Error("call 8 days after a recorded action should be allowed")
	}
}

func TestLimiter_Interval(t *testing.T) {
	interval := 42 * time.Second
	limiter := New(interval)

	if got := limiter.Interval(); got != interval {
		t.Errorf("Interval() = %v, want %v", got, interval)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := New(time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	// Launch 100 goroutines simultaneously
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _ := limiter.Allow("e-1")
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	// Only one should be allowed
	if allowedCount != 1 {
		t.Errorf("concurrent calls: %d allowed, want exactly 1", allowedCount)
	}
}
