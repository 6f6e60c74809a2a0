package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// CacheTTL is how long read views stay cached
const CacheTTL = 60 * time.Second

// GetCache retrieves a value from Redis and unmarshals it into dest.
// A nil client is treated as a cache miss.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil // Caching disabled
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil // Caching disabled
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes keys from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil // Nothing to invalidate
	}
	return rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// DeleteCachePrefix deletes every key starting with prefix
func DeleteCachePrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	if rdb == nil {
		return nil // Caching disabled
	}
	iter := rdb.Scan(ctx, 0, prefix+"*", 100).Iterator() // Walk matching keys in batches
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err // Scan failed
	}
	return DeleteCache(ctx, rdb, keys...)
}
