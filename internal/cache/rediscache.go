// Package cache provides the Redis-backed store for fallback parse
// results. Cache failures are soft: a miss is returned and the pipeline
// proceeds with a fresh parse.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"talentops-bot/internal/common/database"
	"talentops-bot/internal/common/logger"
)

const defaultTTL = 5 * time.Minute

type ParseCache struct {
	client *database.RedisClient
	log    logger.Logger
	ttl    time.Duration
}

func NewParseCache(client *database.RedisClient, log logger.Logger, ttl time.Duration) *ParseCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ParseCache{client: client, log: log, ttl: ttl}
}

func (c *ParseCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key)
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Parse cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return "", false
	}
	return val, true
}

func (c *ParseCache) Set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, c.ttl); err != nil {
		c.log.Warn("Parse cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
