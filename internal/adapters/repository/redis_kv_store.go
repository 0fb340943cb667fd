package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

var _ domain.KeyValueStore = (*RedisKeyValueStore)(nil)

// RedisKeyValueStore backs the generic key-value port with Redis. Values are
// stored without expiry: checked-state maps must survive indefinitely.
type RedisKeyValueStore struct {
	client *redis.Client
}

func NewRedisKeyValueStore(client *redis.Client) *RedisKeyValueStore {
	return &RedisKeyValueStore{client: client}
}

func (s *RedisKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return val, nil
}

func (s *RedisKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}
