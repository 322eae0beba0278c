package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/progress"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	progressKeyPrefix  = "progress:"
	defaultProgressTTL = 10 * time.Minute
	scanBatch          = 100
)

var _ progress.Cache = (*RedisProgressCache)(nil)

// RedisProgressCache shares aggregation results between API replicas.
// Redis errors degrade to cache misses.
type RedisProgressCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProgressCache(client *redis.Client, ttl time.Duration) *RedisProgressCache {
	if ttl <= 0 {
		ttl = defaultProgressTTL
	}
	return &RedisProgressCache{client: client, ttl: ttl}
}

func progressKey(key progress.CacheKey) string {
	return progressKeyPrefix + key.String()
}

func (c *RedisProgressCache) Get(ctx context.Context, key progress.CacheKey) (*progress.Result, bool) {
	raw, err := c.client.Get(ctx, progressKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("progress cache: redis read error")
		}
		return nil, false
	}

	var res progress.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		log.WithField("key", progressKey(key)).Warn("progress cache: corrupted entry, cleaning up key")
		c.client.Del(ctx, progressKey(key))
		return nil, false
	}
	return &res, true
}

func (c *RedisProgressCache) Set(ctx context.Context, key progress.CacheKey, result *progress.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		log.WithError(err).Error("progress cache: encode result")
		return
	}
	if err := c.client.Set(ctx, progressKey(key), data, c.ttl).Err(); err != nil {
		log.WithError(err).Warn("progress cache: redis set error")
	}
}

func (c *RedisProgressCache) InvalidateExercise(ctx context.Context, userID, exerciseID string) {
	c.deleteMatching(ctx, progressKeyPrefix+userID+":"+exerciseID+":*")
}

func (c *RedisProgressCache) InvalidateUser(ctx context.Context, userID string) {
	c.deleteMatching(ctx, progressKeyPrefix+userID+":*")
}

func (c *RedisProgressCache) deleteMatching(ctx context.Context, pattern string) {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			log.WithField("pattern", pattern).WithError(err).Warn("progress cache: scan failed")
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				log.WithField("pattern", pattern).WithError(err).Warn("progress cache: invalidation failed")
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
