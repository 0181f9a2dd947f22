// Package redis keeps slots as plain string keys in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"midad/internal/config"
	"midad/internal/domain"
	"midad/internal/port"
)

type store struct {
	client *goredis.Client
	prefix string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg *config.RedisConfig) (port.KeyValueStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return &store{client: client, prefix: cfg.KeyPrefix}, nil
}

func (s *store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", domain.ErrSlotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *store) Close() error {
	return s.client.Close()
}
