package ports

import (
	"context"
	"time"
)

// RateLimitDecision is the outcome of one admission check.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter admits or rejects a request for a caller identity. Allow
// consumes one slot when it admits.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitDecision, error)
}
