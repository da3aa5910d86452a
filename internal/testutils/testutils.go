package testutils

import (
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dalfonso89/rates-proxy/internal/cache"
	"github.com/dalfonso89/rates-proxy/internal/config"
	"github.com/dalfonso89/rates-proxy/internal/logger"
)

// TestAPIKey is the upstream key used by MockConfig
const TestAPIKey = "test-api-key"

// MockLogger creates a logger that discards output
func MockLogger() *logrus.Logger {
	return logger.NewWithOutput("debug", io.Discard)
}

// MockConfig creates a configuration pointing at the given upstream base URL
func MockConfig(upstreamBaseURL string) *config.Config {
	return &config.Config{
		Port:     "5555",
		LogLevel: "debug",

		Upstream: config.UpstreamProvider{
			Name:    "test-provider",
			BaseURL: upstreamBaseURL,
			APIKey:  TestAPIKey,
			Timeout: 5 * time.Second,
		},
		Cache: config.CacheConfig{
			URL:     "redis://localhost:6379/0",
			Options: &redis.Options{Addr: "localhost:6379"},
			Timeout: time.Second,
		},

		CORSAllowedOrigins: []string{"*"},
	}
}

// MockConfigWithoutKey creates a configuration in the degraded no-key state
func MockConfigWithoutKey(upstreamBaseURL string) *config.Config {
	cfg := MockConfig(upstreamBaseURL)
	cfg.Upstream.APIKey = ""
	return cfg
}

// NewTestStore starts an in-memory Redis and returns a store backed by it
func NewTestStore(t *testing.T) (*miniredis.Miniredis, *cache.RedisStore) {
	t.Helper()

	server := miniredis.RunT(t)
	store := cache.NewRedisStore(&redis.Options{Addr: server.Addr()}, time.Second)
	t.Cleanup(func() {
		store.Close()
	})

	return server, store
}
