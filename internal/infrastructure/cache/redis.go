package cache

import (
	"context"
	"errors"

	"magnetdata-service/internal/application"

	"github.com/redis/go-redis/v9"
)

// Redis backs the cache port with a shared redis instance, letting several
// API processes reuse each other's resolved values.
type Redis struct {
	Client *redis.Client
}

var _ application.Cache = (*Redis)(nil)

func NewRedis(client *redis.Client) *Redis { return &Redis{Client: client} }

func (c *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *Redis) Set(ctx context.Context, key, value string) error {
	// No TTL: entries are dropped only by Reset.
	return c.Client.Set(ctx, key, value, 0).Err()
}

func (c *Redis) Reset(ctx context.Context) error {
	return c.Client.FlushDB(ctx).Err()
}
