package api

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/dalfonso89/rates-proxy/internal/service"
	"github.com/dalfonso89/rates-proxy/internal/testutils"
)

// IntegrationTestSuite runs the full router against a mock upstream and in-memory Redis
type IntegrationTestSuite struct {
	server   *httptest.Server
	upstream *testutils.MockUpstreamServer
	redis    *miniredis.Miniredis
}

// NewIntegrationTestSuite creates a new integration test suite
func NewIntegrationTestSuite(t *testing.T) *IntegrationTestSuite {
	t.Helper()

	upstream := testutils.NewMockUpstreamServer()
	redisServer, store := testutils.NewTestStore(t)

	cfg := testutils.MockConfig(upstream.URL())
	logger := testutils.MockLogger()
	ratesService := service.NewRatesService(cfg, logger, service.NewHTTPRatesProvider(cfg.Upstream, logger), store)

	handlers := NewHandlers(HandlerConfig{
		Configuration: cfg,
		Logger:        logger,
		RatesService:  ratesService,
		Store:         store,
	})

	gin.SetMode(gin.TestMode)
	suite := &IntegrationTestSuite{
		server:   httptest.NewServer(handlers.SetupRoutes()),
		upstream: upstream,
		redis:    redisServer,
	}
	t.Cleanup(suite.Close)

	return suite
}

// Close cleans up the test suite
func (its *IntegrationTestSuite) Close() {
	its.server.Close()
	its.upstream.Close()
}

func (its *IntegrationTestSuite) fetch(path string) (int, string, error) {
	resp, err := http.Get(its.server.URL + path)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(body), nil
}

// TestConcurrentWarmRatesRequests checks that a warm entry absorbs concurrent load
func TestConcurrentWarmRatesRequests(t *testing.T) {
	suite := NewIntegrationTestSuite(t)

	const (
		numGoroutines        = 20
		requestsPerGoroutine = 10
	)

	status, warm, err := suite.fetch("/rates/USD")
	if err != nil || status != http.StatusOK {
		t.Fatalf("warm-up request failed: status=%d err=%v", status, err)
	}

	var successfulRequests atomic.Int64
	startTime := time.Now()

	var group errgroup.Group
	for i := 0; i < numGoroutines; i++ {
		goroutineID := i
		group.Go(func() error {
			for j := 0; j < requestsPerGoroutine; j++ {
				status, body, err := suite.fetch("/rates/USD")
				if err != nil {
					return fmt.Errorf("goroutine %d request %d failed: %w", goroutineID, j, err)
				}
				if status != http.StatusOK || body != warm {
					return fmt.Errorf("goroutine %d request %d: status %d, body %q", goroutineID, j, status, body)
				}
				successfulRequests.Add(1)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		t.Fatal(err)
	}

	t.Logf("=== Concurrent Load Test Results ===")
	t.Logf("Successful Requests: %d", successfulRequests.Load())
	t.Logf("Total Duration: %v", time.Since(startTime))

	if suite.upstream.CallCount() != 1 {
		t.Errorf("upstream calls = %d, want 1", suite.upstream.CallCount())
	}
}

// TestConcurrentMixedRequests runs rate lookups and conversions side by side
func TestConcurrentMixedRequests(t *testing.T) {
	suite := NewIntegrationTestSuite(t)

	currencies := []string{"USD", "EUR", "GBP", "JPY"}

	var group errgroup.Group
	for _, currency := range currencies {
		currency := currency
		group.Go(func() error {
			status, body, err := suite.fetch("/rates/" + currency)
			if err != nil {
				return err
			}
			if status != http.StatusOK || body != testutils.LatestPayload(currency) {
				return fmt.Errorf("rates %s: status %d, body %q", currency, status, body)
			}
			return nil
		})
		group.Go(func() error {
			status, body, err := suite.fetch("/convert/" + currency + "/CHF/2.5")
			if err != nil {
				return err
			}
			if status != http.StatusOK || body != testutils.PairPayload(currency, "CHF", "2.5") {
				return fmt.Errorf("convert %s: status %d, body %q", currency, status, body)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		t.Fatal(err)
	}

	for _, currency := range currencies {
		if ttl := suite.redis.TTL(currency); ttl != service.RatesCacheTTL {
			t.Errorf("ttl(%s) = %v, want %v", currency, ttl, service.RatesCacheTTL)
		}
	}
	if len(suite.redis.Keys()) != len(currencies)+1 {
		t.Errorf("cache keys = %v, want %d rate entries plus the call counter", suite.redis.Keys(), len(currencies))
	}
}

// TestCacheExpiryRefetches checks that an expired entry is fetched again
func TestCacheExpiryRefetches(t *testing.T) {
	suite := NewIntegrationTestSuite(t)

	if status, _, err := suite.fetch("/rates/AUD"); err != nil || status != http.StatusOK {
		t.Fatalf("first request failed: status=%d err=%v", status, err)
	}

	suite.redis.FastForward(service.RatesCacheTTL + time.Second)

	if status, _, err := suite.fetch("/rates/AUD"); err != nil || status != http.StatusOK {
		t.Fatalf("second request failed: status=%d err=%v", status, err)
	}

	if suite.upstream.CallCount() != 2 {
		t.Errorf("upstream calls = %d, want 2", suite.upstream.CallCount())
	}
}
