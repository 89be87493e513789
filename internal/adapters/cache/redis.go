package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScheduleCache caches reconciled schedules keyed by loan id. A miss is
// reported as ok=false, never as an error; the cache is best-effort.
type ScheduleCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache is the redis-backed ScheduleCache
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a redis cache client
func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb}
}

// Ping checks connectivity
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns the cached value for key
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores value under key with a TTL
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close closes the underlying client
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// NoopCache satisfies ScheduleCache when redis is not configured
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (string, bool) { return "", false }
func (NoopCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}
func (NoopCache) Delete(ctx context.Context, key string) error { return nil }
