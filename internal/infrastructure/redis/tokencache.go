package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// TokenCache stores short-lived gateway artifacts in Redis. It satisfies
// the gateway adapter's cache port. Cache failures degrade to misses:
// the gateway refetches and the flow continues.
type TokenCache struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewTokenCache creates a Redis-backed token cache.
func NewTokenCache(client *redis.Client, logger zerolog.Logger) *TokenCache {
	return &TokenCache{client: client, logger: logger}
}

func (c *TokenCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("token cache read failed")
		}
		return "", false
	}
	return val, true
}

func (c *TokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("token cache write failed")
	}
}
