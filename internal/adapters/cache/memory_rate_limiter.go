package cache

import (
	"context"
	"sync"
	"time"

	"github.com/viralforge/forensics-engine/internal/ports"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryRateLimiter is the single-replica fallback used when no Redis is
// configured. Same fixed-window semantics as the Redis limiter.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	window  time.Duration
	nowFn   func() time.Time
}

func NewMemoryRateLimiter(limit int, windowSize time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		window:  windowSize,
		nowFn:   time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (ports.RateLimitDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{count: 0, resetAt: now.Add(l.window)}
		l.windows[key] = w
	}
	w.count++

	remaining := l.limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateLimitDecision{
		Allowed:   w.count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}, nil
}

// Sweep drops expired windows and reports how many were removed. Called on a
// schedule so idle callers do not accumulate forever.
func (l *MemoryRateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	removed := 0
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}
