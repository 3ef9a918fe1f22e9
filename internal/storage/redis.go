package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the token under a fixed Redis key, for operators who share
// one signed-in dashboard identity across several terminals.
type RedisStore struct {
	rdb redis.UniversalClient
	key string
}

// NewRedisStore returns a store using prefix+key. An empty key means DefaultKey.
func NewRedisStore(rdb redis.UniversalClient, prefix, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{rdb: rdb, key: prefix + key}
}

// Key returns the full Redis key.
func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	tok, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage.RedisStore.Load: %w", err)
	}
	return tok, nil
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("storage.RedisStore.Save: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("storage.RedisStore.Remove: %w", err)
	}
	return nil
}
