package sidestore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the side store with Redis so bookkeeping survives
// instance restarts and is shared across instances.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(key string) (string, error) {
	val, err := s.rdb.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisStore) Set(key, value string, ttl time.Duration) error {
	return s.rdb.Set(context.Background(), key, value, ttl).Err()
}

func (s *RedisStore) Remove(key string) error {
	return s.rdb.Del(context.Background(), key).Err()
}
