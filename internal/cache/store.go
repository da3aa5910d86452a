// Package cache provides the shared key-value store backing the rates proxy.
//
// Entries are raw upstream payloads keyed by the currency code exactly as the
// caller supplied it. Every entry is written together with its expiration, so
// the store never holds a payload without a TTL.
package cache

import (
	"context"
	"errors"
	"time"
)

// CallCounterKey is the key of the advisory upstream call counter
const CallCounterKey = "api_calls"

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// Store is the subset of cache primitives the fetcher relies on
type Store interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// SetWithExpiry stores value under key with the given time-to-live.
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// IncrementCounter bumps the counter under key and returns its new value.
	IncrementCounter(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
