package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *RedisRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisRepository(rdb)
}

func TestRedisRepository_RevokeAndExpire(t *testing.T) {
	mr, repo := newRedis(t)
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"jti-1"))

	mr.FastForward(time.Minute + time.Second)

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRepository_NonPositiveTTLIsNoop(t *testing.T) {
	mr, repo := newRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "jti-2", 0))
	require.NoError(t, repo.Revoke(ctx, "jti-2", -time.Second))
	assert.False(t, mr.Exists(keyPrefix+"jti-2"))
}

func TestRedisRepository_ServerDown(t *testing.T) {
	mr, repo := newRedis(t)
	mr.Close()

	_, err := repo.IsRevoked(context.Background(), "x")
	assert.ErrorContains(t, err, "redis error")

	err = repo.Revoke(context.Background(), "x", time.Minute)
	assert.ErrorContains(t, err, "redis error")
}
