// Package ratelimit provides fixed-window request counting backed by Redis,
// so limits hold across multiple api instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers whether one more hit on key fits inside the current window.
// Handlers depend on the interface so tests can inject a fake.
type Limiter interface {
	// Allow increments the counter for key and reports whether the count is
	// still within limit for the window. The first hit starts the window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RedisLimiter counts hits with INCR and expires the key at the end of the
// window, giving a fixed (not sliding) window.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter constructs a limiter over an existing client.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "ratelimit:"}
}

var _ Limiter = (*RedisLimiter)(nil)

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	full := l.prefix + key
	count, err := l.client.Incr(ctx, full).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		// Only the hit that opens the window sets the TTL; later hits must
		// not extend it.
		if err := l.client.Expire(ctx, full, window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return count <= int64(limit), nil
}
