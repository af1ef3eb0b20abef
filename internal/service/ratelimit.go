package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter gates the unauthenticated alert endpoints. Anyone holding a
// pet id can trigger owner notifications, so sends are capped per key
// before any delivery is attempted.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// incrWindowScript counts hits in a fixed window. The window TTL is set only
// when the counter is created so the window does not slide on every hit.
var incrWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return count
`)

const rateLimitKeyPrefix = "alert:ratelimit:"

// RedisRateLimiter implements RateLimiter with a fixed window per key.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := incrWindowScript.Run(ctx, l.client,
		[]string{rateLimitKeyPrefix + key},
		l.window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}
