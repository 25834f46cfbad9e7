package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "authkeeper:revoked:"

type RedisRepository struct {
	rdb redis.Cmdable
}

func NewRedisRepository(rdb redis.Cmdable) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func (r *RedisRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, keyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}
