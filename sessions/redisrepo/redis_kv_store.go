package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.KeyValueStore = (*RedisKVStore)(nil)

// RedisKVStore is a KeyValueStore backed by Redis. Keys are namespaced by a
// prefix and written with an expiration so abandoned sessions age out even
// if nothing ever reads them again.
type RedisKVStore struct {
	client     redis.Cmdable
	prefix     string
	expiration time.Duration
}

// Option configures a RedisKVStore.
type Option func(*RedisKVStore)

// WithExpiration overrides the key expiration (default sessions.TTL).
func WithExpiration(d time.Duration) Option {
	return func(s *RedisKVStore) {
		s.expiration = d
	}
}

// Connect opens a Redis client and checks it answers a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// New creates a store writing keys as "<prefix>:<key>".
func New(client redis.Cmdable, prefix string, options ...Option) (*RedisKVStore, error) {
	if client == nil {
		return nil, errors.New("[redisrepo.New] client is required")
	}
	if prefix == "" {
		return nil, errors.New("[redisrepo.New] prefix is required")
	}

	s := &RedisKVStore{
		client:     client,
		prefix:     prefix,
		expiration: sessions.TTL,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// FullKey returns the Redis key used for key.
func (s *RedisKVStore) FullKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func (s *RedisKVStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.FullKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *RedisKVStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.FullKey(key), value, s.expiration).Err()
}

func (s *RedisKVStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.FullKey(key)).Err()
}
