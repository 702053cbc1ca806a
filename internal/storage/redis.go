package storage

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is used when no key is configured.
const DefaultRedisKey = "fintrack:snapshot"

// RedisGateway stores the snapshot under one key. A SET replaces the whole
// document atomically.
type RedisGateway struct {
	client *redis.Client
	key    string
}

func NewRedisGateway(ctx context.Context, addr, key string) (*RedisGateway, error) {
	if key == "" {
		key = DefaultRedisKey
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisGateway{client: client, key: key}, nil
}

func (g *RedisGateway) Close() error {
	return g.client.Close()
}

func (g *RedisGateway) Load(ctx context.Context) (*core.Snapshot, error) {
	b, err := g.client.Get(ctx, g.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decode(b)
}

func (g *RedisGateway) Save(ctx context.Context, snap *core.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}
	if err := g.client.Set(ctx, g.key, b, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
