package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps the session under "<prefix>:<key>" with an optional
// TTL refreshed on every Save.
type RedisRepository struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisRepository(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisRepository {
	if prefix == "" {
		prefix = "cakeplanner:session"
	}
	return &RedisRepository{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *RedisRepository) key(k string) string {
	return r.prefix + ":" + k
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return v, nil
}

func (r *RedisRepository) Save(ctx context.Context, values map[string][]byte) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.key(k), v, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	if err := r.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
