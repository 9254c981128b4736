package readmodel

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key Key) error
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get reports found=false for a missing key.
func (s *RedisStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key.String(), value, ttl).Err()
}

func (s *RedisStore) Invalidate(ctx context.Context, key Key) error {
	return s.rdb.Del(ctx, key.String()).Err()
}
