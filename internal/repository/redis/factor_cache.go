package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// FactorCache implements service.FactorCache on Redis so that several
// instances share Climatiq answers
type FactorCache struct {
	client *goredis.Client
	prefix string
}

// NewFactorCache creates a new Redis-backed factor cache
func NewFactorCache(client *goredis.Client) *FactorCache {
	return &FactorCache{client: client, prefix: "carbonsense:"}
}

// NewClient parses a redis:// URL and creates a client
func NewClient(redisURL string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid url: %w", err)
	}
	return goredis.NewClient(opt), nil
}

// Get returns a cached value; a missing key is not an error
func (c *FactorCache) Get(ctx context.Context, key string) (float64, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Float64()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis: failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value with expiry
func (c *FactorCache) Set(ctx context.Context, key string, value float64, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to set %s: %w", key, err)
	}
	return nil
}

// Health pings the Redis server
func (c *FactorCache) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: health check failed: %w", err)
	}
	return nil
}
