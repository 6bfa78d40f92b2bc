package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisRateLimitPrefix = "katara:rl:"

type redisRateLimitRepository struct {
	client *redis.Client
}

// NewRedisRateLimitRepository keeps fixed-window counters in Redis. Keys expire
// on their own, so CleanupExpired has nothing to do.
func NewRedisRateLimitRepository(client *redis.Client) RateLimitRepository {
	return &redisRateLimitRepository{client: client}
}

func (r *redisRateLimitRepository) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := redisRateLimitPrefix + key
	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, k, window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= int64(limit), nil
}

func (r *redisRateLimitRepository) CleanupExpired(context.Context) error {
	return nil
}
