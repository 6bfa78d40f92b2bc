package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRateLimitWindow(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisRateLimitRepository(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := repo.IncrementAndCheck(ctx, "email:address:a@b.co", 3, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}
	ok, err := repo.IncrementAndCheck(ctx, "email:address:a@b.co", 3, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, time.Hour, mr.TTL(redisRateLimitPrefix+"email:address:a@b.co"))

	// other keys are independent
	ok, err = repo.IncrementAndCheck(ctx, "email:address:c@d.co", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	// window rolls over
	mr.FastForward(time.Hour + time.Second)
	ok, err = repo.IncrementAndCheck(ctx, "email:address:a@b.co", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, repo.CleanupExpired(ctx))
}

func TestRedisRateLimitUnavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisRateLimitRepository(client)
	mr.Close()

	_, err := repo.IncrementAndCheck(context.Background(), "email:global", 10, time.Hour)
	assert.Error(t, err)
}
