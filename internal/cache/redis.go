package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of a pooled Redis client.
// It is safe for concurrent use by multiple requests.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisStore creates a store from parsed connection options.
// No connection is made until the first command; call Ping to connect eagerly.
func NewRedisStore(options *redis.Options, timeout time.Duration) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(options), timeout)
}

// NewRedisStoreFromClient wraps an existing Redis client
func NewRedisStoreFromClient(client *redis.Client, timeout time.Duration) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		client:  client,
		timeout: timeout,
	}
}

// Get retrieves the raw value stored under key.
// Returns ErrCacheMiss if the key doesn't exist or holds an empty value.
func (store *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := store.withTimeout(ctx)
	defer cancel()

	data, err := store.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	if len(data) == 0 {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.Inc()
	return data, nil
}

// SetWithExpiry stores value under key with a TTL in a single SET ... EX command
func (store *RedisStore) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("refusing to cache %q without expiration", key)
	}

	ctx, cancel := store.withTimeout(ctx)
	defer cancel()

	if err := store.client.Set(ctx, key, value, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// IncrementCounter atomically increments the integer stored under key.
// A missing key counts from zero.
func (store *RedisStore) IncrementCounter(ctx context.Context, key string) (int64, error) {
	ctx, cancel := store.withTimeout(ctx)
	defer cancel()

	value, err := store.client.Incr(ctx, key).Result()
	if err != nil {
		CacheErrors.WithLabelValues("incr").Inc()
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	return value, nil
}

// Ping checks connectivity with the Redis server
func (store *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := store.withTimeout(ctx)
	defer cancel()

	if err := store.client.Ping(ctx).Err(); err != nil {
		CacheErrors.WithLabelValues("ping").Inc()
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (store *RedisStore) Close() error {
	return store.client.Close()
}

func (store *RedisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if store.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, store.timeout)
}
