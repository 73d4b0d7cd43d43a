package positions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lumeview:pos:"

// RedisStore implements Store on Redis so remembered positions survive
// process restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a Redis-backed store. Entries expire after ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get retrieves a remembered position.
func (s *RedisStore) Get(ctx context.Context, key string) (int, bool, error) {
	position, err := s.client.Get(ctx, keyPrefix+key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get position %s: %w", key, err)
	}
	return position, true, nil
}

// Set stores a position with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key string, position int) error {
	if err := s.client.Set(ctx, keyPrefix+key, position, s.ttl).Err(); err != nil {
		return fmt.Errorf("set position %s: %w", key, err)
	}
	return nil
}

// Clear forgets a position.
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("clear position %s: %w", key, err)
	}
	return nil
}
