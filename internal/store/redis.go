package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore wraps the Redis connection used for rate limiting and IP
// blocking. Listing data never touches Redis; the two JSON documents remain
// the only source of truth.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	s := &RedisStore{client: redis.NewClient(opts)}
	if err := s.Ping(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return s, nil
}

// Client exposes the underlying connection for the rate limiter.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
