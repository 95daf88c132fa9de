package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore defines the interface for short-lived verification code storage
type CodeStore interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// redisCodeStore implements CodeStore using Redis
type redisCodeStore struct {
	client *redis.Client
}

// NewRedisCodeStore creates a new Redis-backed verification code store
func NewRedisCodeStore(addr, password string, db int) CodeStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &redisCodeStore{client: client}
}

func (s *redisCodeStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCodeStore) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *redisCodeStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisCodeStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
