package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type (
	// Redis is a Storage implementation backed by a Redis server. Keys are
	// namespaced with a prefix and optionally expire so abandoned flows do
	// not accumulate
	Redis struct {
		client *redis.Client
		prefix string
		ttl    time.Duration
	}

	// RedisConfig holds the connection settings for a Redis store
	RedisConfig struct {
		Addr     string
		Password string
		Prefix   string
		DB       int
		TTL      time.Duration
	}
)

var _ Storage = (*Redis)(nil)

// NewRedis creates a Redis-backed store from the provided configuration
func NewRedis(cfg RedisConfig) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Redis{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.keyFor(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.keyFor(key), value, r.ttl).Err()
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.keyFor(key)).Err()
}

// Close releases the underlying Redis connection
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) keyFor(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}
