package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalfonso89/rates-proxy/internal/config"
	"github.com/dalfonso89/rates-proxy/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxUpstreamBodyBytes bounds how much of an upstream reply is buffered
const maxUpstreamBodyBytes = 4 << 20

// RatesProvider is the upstream exchange rate API as seen by the fetcher.
// A non-200 reply is not an error; only transport failures are.
type RatesProvider interface {
	LatestRates(ctx context.Context, currency string) (models.UpstreamResponse, error)
	PairConversion(ctx context.Context, base, target string, amount decimal.Decimal) (models.UpstreamResponse, error)
}

// HTTPRatesProvider implements RatesProvider for ExchangeRate-API style endpoints:
//
//	GET {base}/{key}/latest/{currency}
//	GET {base}/{key}/pair/{base}/{target}/{amount}
type HTTPRatesProvider struct {
	configuration config.UpstreamProvider
	logger        *logrus.Logger
	httpClient    *http.Client
}

// NewHTTPRatesProvider creates a new HTTP rates provider
func NewHTTPRatesProvider(configuration config.UpstreamProvider, logger *logrus.Logger) *HTTPRatesProvider {
	httpTransport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	timeout := configuration.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRatesProvider{
		configuration: configuration,
		logger:        logger,
		httpClient:    &http.Client{Timeout: timeout, Transport: httpTransport},
	}
}

// GetName returns the provider name
func (provider *HTTPRatesProvider) GetName() string {
	return provider.configuration.Name
}

// LatestRates fetches the latest rates for a base currency
func (provider *HTTPRatesProvider) LatestRates(ctx context.Context, currency string) (models.UpstreamResponse, error) {
	return provider.get(ctx, models.OperationLatestRates, "latest", currency)
}

// PairConversion converts amount from base to target
func (provider *HTTPRatesProvider) PairConversion(ctx context.Context, base, target string, amount decimal.Decimal) (models.UpstreamResponse, error) {
	return provider.get(ctx, models.OperationConvert, "pair", base, target, amount.String())
}

func (provider *HTTPRatesProvider) get(ctx context.Context, kind models.OperationKind, segments ...string) (models.UpstreamResponse, error) {
	requestURL := provider.buildURL(segments...)
	operation := kind.String()
	startTime := time.Now()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return models.UpstreamResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := provider.httpClient.Do(request)
	UpstreamDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	if err != nil {
		UpstreamRequests.WithLabelValues(operation, "error").Inc()
		return models.UpstreamResponse{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer response.Body.Close()

	UpstreamRequests.WithLabelValues(operation, strconv.Itoa(response.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxUpstreamBodyBytes))
	if err != nil {
		return models.UpstreamResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}

	provider.logger.WithFields(logrus.Fields{
		"provider":  provider.GetName(),
		"operation": operation,
		"status":    response.StatusCode,
		"latency":   time.Since(startTime),
	}).Debug("Upstream request completed")

	return models.UpstreamResponse{StatusCode: response.StatusCode, Body: body}, nil
}

// buildURL joins the base URL, the API key and the escaped path segments
func (provider *HTTPRatesProvider) buildURL(segments ...string) string {
	escaped := make([]string, 0, len(segments)+2)
	escaped = append(escaped, provider.configuration.BaseURL, url.PathEscape(provider.configuration.APIKey))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return strings.Join(escaped, "/")
}
