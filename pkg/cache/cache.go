package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Key builds a deterministic composite cache key.
//
// The namespace comes first, positional parts follow in call order, and named
// parts are appended in lexicographically sorted key order as "name:value".
// Sorting is part of the contract: semantically identical queries must resolve
// to the same key regardless of how the call site ordered its parameters.
//
//	Key("assets:list", nil, map[string]any{"skip": 0, "limit": 10})
//	  == "assets:list:limit:10:skip:0"
func Key(namespace string, positional []any, named map[string]any) string {
	parts := make([]string, 0, 1+len(positional)+len(named))
	parts = append(parts, namespace)
	for _, p := range positional {
		parts = append(parts, fmt.Sprint(p))
	}
	if len(named) > 0 {
		names := make([]string, 0, len(named))
		for k := range named {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			parts = append(parts, k+":"+fmt.Sprint(named[k]))
		}
	}
	return strings.Join(parts, ":")
}

// RedisCache is a fail-open JSON cache over Redis. The cache is a pure
// performance optimization: every operation degrades to "absent" or a no-op
// failure flag, and no method ever returns a backend error to the caller.
type RedisCache struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

func New(rdb *redis.Client, logger *logrus.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, logger: logger}
}

// Get unmarshals the value stored at key into dest and reports whether a
// usable value was found. Backend errors and deserialization failures are
// treated identically to a miss.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.warn("cache get failed", key, err)
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		c.warn("cache entry unreadable", key, err)
		return false
	}
	return true
}

// Set stores value under key with the given TTL and reports success.
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	b, err := json.Marshal(value)
	if err != nil {
		c.warn("cache marshal failed", key, err)
		return false
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		c.warn("cache set failed", key, err)
		return false
	}
	return true
}

// Delete removes key. Removal is idempotent: an absent key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) bool {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.warn("cache delete failed", key, err)
		return false
	}
	return true
}

// InvalidatePattern removes every key matching the glob-style pattern and
// returns how many were removed. Zero matches is success. SCAN is used instead
// of KEYS so invalidation never blocks the backend on large keyspaces.
func (c *RedisCache) InvalidatePattern(ctx context.Context, pattern string) int {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.warn("cache scan failed", pattern, err)
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		c.warn("cache invalidate failed", pattern, err)
		return 0
	}
	return int(n)
}

func (c *RedisCache) warn(msg, key string, err error) {
	if c.logger != nil {
		c.logger.WithError(err).WithField("key", key).Warn(msg)
	}
}
