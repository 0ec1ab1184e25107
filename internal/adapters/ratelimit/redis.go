package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"eventattendance/internal/domain"
)

const keyPrefix = "ratelimit:"

// redisLimiter is a fixed-window counter: the first hit in a window sets the key's TTL.
type redisLimiter struct {
	client redis.Cmdable
	scope  string
	limit  int64
	window time.Duration
}

// NewRedisLimiter allows limit hits per key per window. scope namespaces the keys so
// several limiters can share one Redis.
func NewRedisLimiter(client redis.Cmdable, scope string, limit int, window time.Duration) domain.RateLimiter {
	return &redisLimiter{client: client, scope: scope, limit: int64(limit), window: window}
}

func (l *redisLimiter) key(k string) string {
	return keyPrefix + l.scope + ":" + k
}

func (l *redisLimiter) Allow(ctx context.Context, k string) (bool, error) {
	key := l.key(k)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", key, err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return n <= l.limit, nil
}

type noopLimiter struct{}

// NewNoopLimiter returns a limiter that allows everything, used when Redis is not configured.
func NewNoopLimiter() domain.RateLimiter { return noopLimiter{} }

func (noopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
