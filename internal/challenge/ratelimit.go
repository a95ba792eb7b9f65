package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter counts actions per key inside a rolling window using a
// Redis counter with TTL.
type RateLimiter interface {
	// Allow increments the counter and reports whether the action is
	// still within the limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type rateLimiter struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRateLimiter(client *redis.Client, log *zap.Logger) RateLimiter {
	return &rateLimiter{
		client: client,
		log:    log.With(zap.String("component", "rate_limiter")),
	}
}

func (rl *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := "ratelimit:" + key

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		rl.log.Error("Failed to increment rate limit counter",
			zap.Error(err),
			zap.String("key", key),
		)
		return false, fmt.Errorf("increment rate limit %s: %w", key, err)
	}

	// First hit in the window owns setting the expiry
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, window).Err(); err != nil {
			rl.log.Error("Failed to set rate limit expiry",
				zap.Error(err),
				zap.String("key", key),
			)
			return false, fmt.Errorf("expire rate limit %s: %w", key, err)
		}
	}

	return count <= int64(limit), nil
}
