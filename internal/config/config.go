package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// DefaultCurrency is the base currency served from the root route
const DefaultCurrency = "USD"

// UpstreamProvider describes the third-party exchange rate API
type UpstreamProvider struct {
	Name    string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// CacheConfig describes the Redis connection used as the shared cache
type CacheConfig struct {
	URL     string
	Options *redis.Options
	Timeout time.Duration
}

// Config holds all configuration for the application
type Config struct {
	Port     string
	LogLevel string

	Upstream UpstreamProvider
	Cache    CacheConfig

	CORSAllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	redisURL := getEnv("REDIS_URL", "redis://localhost:6379/0")
	redisOptions, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	return &Config{
		Port:     getEnv("PORT", "5555"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Upstream: UpstreamProvider{
			Name:    "exchangerate-api",
			BaseURL: strings.TrimRight(getEnv("EXCHANGE_RATE_API_BASE_URL", "https://v6.exchangerate-api.com/v6"), "/"),
			APIKey:  os.Getenv("CONVERTER_API_KEY"),
			Timeout: time.Duration(atoiOr(getEnv("UPSTREAM_TIMEOUT_SECONDS", "10"), 10)) * time.Second,
		},
		Cache: CacheConfig{
			URL:     redisURL,
			Options: redisOptions,
			Timeout: time.Duration(atoiOr(getEnv("CACHE_TIMEOUT_SECONDS", "2"), 2)) * time.Second,
		},

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}, nil
}

// HasAPIKey reports whether an upstream API key is configured.
// A missing key is a valid, degraded runtime state rather than a startup error.
func (configuration *Config) HasAPIKey() bool {
	return configuration.Upstream.APIKey != ""
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func atoiOr(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return fallback
	}
	return i
}

func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
