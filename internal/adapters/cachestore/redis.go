package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carecircle/internal/ports/cache"

	"github.com/redis/go-redis/v9"
)

// Redis implementa cache.Cache sobre go-redis. Los valores van como JSON
// y todas las keys llevan Prefix.
type Redis struct {
	client *redis.Client
	Prefix string
}

// NewRedis parsea REDIS_URL y hace un PING antes de devolver el cliente.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}
	return NewRedisFromClient(client), nil
}

func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client, Prefix: "carecircle:"}
}

func (c *Redis) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, c.Prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cache.ErrMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.Prefix+key, data, ttl).Err()
}

func (c *Redis) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return c.client.SetNX(ctx, c.Prefix+key, data, ttl).Result()
}

func (c *Redis) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.Prefix+key).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}
