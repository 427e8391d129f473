package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/viralforge/forensics-engine/internal/ports"
)

// RedisRateLimiter is a fixed-window counter shared across engine replicas.
// One INCR per admission; the first hit in a window sets the expiry.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (ports.RateLimitDecision, error) {
	redisKey := "forensics:ratelimit:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return ports.RateLimitDecision{}, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return ports.RateLimitDecision{}, err
		}
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		// A key without TTL (lost expiry) resets at worst one window out.
		ttl = l.window
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateLimitDecision{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}
