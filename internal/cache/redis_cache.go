package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const redisKeyPrefix = "showcase:cache:"

// RedisCache stores the same envelope as FileCache in Redis strings, with the
// TTL enforced server-side as well. Selected when REDIS_ADDR is configured.
type RedisCache struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, now: time.Now}
}

func (c *RedisCache) key(key string) string {
	return redisKeyPrefix + key
}

func (c *RedisCache) read(ctx context.Context, key string) (entry, bool) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return entry{}, false
	}
	return e, true
}

func (c *RedisCache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	e, ok := c.read(ctx, key)
	if !ok {
		return nil, false
	}

	if e.expired(c.now()) {
		return nil, false
	}

	return e.Data, true
}

func (c *RedisCache) Set(ctx context.Context, key string, payload json.RawMessage, lastModified time.Time) {
	raw, err := json.Marshal(newEntry(payload, c.now(), lastModified))
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, c.key(key), raw, TTL).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache invalidate failed")
	}
}

func (c *RedisCache) ShouldInvalidate(ctx context.Context, key string, currentMarker time.Time) bool {
	e, ok := c.read(ctx, key)
	if !ok {
		return false
	}

	if e.staleAgainst(currentMarker) {
		logrus.WithField("key", key).Info("data changed, invalidating cache")
		c.Invalidate(ctx, key)
		return true
	}

	return false
}
