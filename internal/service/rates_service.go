package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalfonso89/rates-proxy/internal/cache"
	"github.com/dalfonso89/rates-proxy/internal/config"
	"github.com/dalfonso89/rates-proxy/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RatesCacheTTL is the expiration attached to every cached rates payload
const RatesCacheTTL = 12 * time.Hour

// RatesService executes routed operations with a cache-aside strategy.
// It holds no mutable state; the store and provider are shared and concurrency-safe.
type RatesService struct {
	configuration *config.Config
	logger        *logrus.Logger
	provider      RatesProvider
	store         cache.Store
}

func NewRatesService(configuration *config.Config, logger *logrus.Logger, provider RatesProvider, store cache.Store) *RatesService {
	return &RatesService{
		configuration: configuration,
		logger:        logger,
		provider:      provider,
		store:         store,
	}
}

// Execute runs one operation end to end and returns the payload to relay
func (ratesService *RatesService) Execute(requestContext context.Context, operation models.Operation) ([]byte, error) {
	if key, cacheable := operation.CacheKey(); cacheable {
		return ratesService.GetLatestRates(requestContext, key)
	}

	switch operation.Kind {
	case models.OperationConvert:
		return ratesService.Convert(requestContext, operation.Base, operation.Target, operation.Amount)
	default:
		return nil, NewValidationError(fmt.Sprintf("unsupported operation %d", operation.Kind), nil)
	}
}

// GetLatestRates serves the latest rates for currency from cache, falling back to upstream.
// The currency is used verbatim as the cache key.
func (ratesService *RatesService) GetLatestRates(requestContext context.Context, currency string) ([]byte, error) {
	log := ratesService.logger.WithField("currency", currency)

	cached, cacheError := ratesService.store.Get(requestContext, currency)
	switch {
	case cacheError == nil:
		log.Debug("Serving rates from cache")
		return cached, nil
	case errors.Is(cacheError, cache.ErrCacheMiss):
		log.Debug("Rates cache miss")
	default:
		log.Warnf("Cache read failed, treating as miss: %v", cacheError)
	}

	if !ratesService.configuration.HasAPIKey() {
		log.Error("Cannot fetch rates: CONVERTER_API_KEY is not set")
		return nil, NewConfigurationError()
	}

	response, fetchError := ratesService.provider.LatestRates(requestContext, currency)
	if err := ratesService.checkUpstream(log, response, fetchError); err != nil {
		return nil, err
	}

	ratesService.storeRates(requestContext, log, currency, response.Body)
	return response.Body, nil
}

// Convert forwards a pair conversion upstream. Conversions are never cached.
func (ratesService *RatesService) Convert(requestContext context.Context, base, target string, amount decimal.Decimal) ([]byte, error) {
	log := ratesService.logger.WithFields(logrus.Fields{
		"base":   base,
		"target": target,
		"amount": amount.String(),
	})

	if !ratesService.configuration.HasAPIKey() {
		log.Error("Cannot convert: CONVERTER_API_KEY is not set")
		return nil, NewConfigurationError()
	}

	response, fetchError := ratesService.provider.PairConversion(requestContext, base, target, amount)
	if err := ratesService.checkUpstream(log, response, fetchError); err != nil {
		return nil, err
	}

	return response.Body, nil
}

// checkUpstream classifies a provider result; anything but a 200 is an UpstreamError
func (ratesService *RatesService) checkUpstream(log *logrus.Entry, response models.UpstreamResponse, fetchError error) error {
	if fetchError != nil {
		log.Errorf("Upstream request failed: %v", fetchError)
		return NewUpstreamError("upstream request failed", fetchError)
	}
	if response.StatusCode != http.StatusOK {
		log.Errorf("Upstream returned status %d", response.StatusCode)
		return NewUpstreamError(fmt.Sprintf("upstream returned status %d", response.StatusCode), nil)
	}
	return nil
}

// storeRates writes the payload with its expiration and bumps the call counter.
// Failures are logged only; the caller still receives the fresh payload.
func (ratesService *RatesService) storeRates(requestContext context.Context, log *logrus.Entry, currency string, payload []byte) {
	if err := ratesService.store.SetWithExpiry(requestContext, currency, payload, RatesCacheTTL); err != nil {
		log.Warnf("Failed to cache rates, serving uncached: %v", err)
		return
	}

	calls, err := ratesService.store.IncrementCounter(requestContext, cache.CallCounterKey)
	if err != nil {
		log.Warnf("Failed to increment upstream call counter: %v", err)
		return
	}
	log.WithField("api_calls", calls).Info("Fetched and cached rates from upstream")
}
