package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind identifies what an inbound request asks the proxy to do
type OperationKind int

const (
	// OperationLatestRates fetches the latest rates for a base currency
	OperationLatestRates OperationKind = iota
	// OperationConvert converts an amount between two currencies
	OperationConvert
)

func (kind OperationKind) String() string {
	switch kind {
	case OperationLatestRates:
		return "latest"
	case OperationConvert:
		return "convert"
	default:
		return "unknown"
	}
}

// Operation is the routed form of an inbound request
type Operation struct {
	Kind   OperationKind
	Base   string
	Target string
	Amount decimal.Decimal
}

// LatestRates builds a latest-rates operation for the given base currency
func LatestRates(base string) Operation {
	return Operation{Kind: OperationLatestRates, Base: base}
}

// Convert builds a pair-conversion operation
func Convert(base, target string, amount decimal.Decimal) Operation {
	return Operation{Kind: OperationConvert, Base: base, Target: target, Amount: amount}
}

// CacheKey returns the cache key for the operation.
// Only latest-rates operations are cacheable; the key is the base currency exactly as supplied.
func (operation Operation) CacheKey() (string, bool) {
	if operation.Kind != OperationLatestRates {
		return "", false
	}
	return operation.Base, true
}

func (operation Operation) String() string {
	if operation.Kind == OperationConvert {
		return fmt.Sprintf("convert %s %s->%s", operation.Amount.String(), operation.Base, operation.Target)
	}
	return fmt.Sprintf("latest %s", operation.Base)
}

// UpstreamResponse is the raw reply of the rate provider. The body is never parsed.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// ErrorResponse is the JSON body written for every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthCheck is the body of the health endpoint
type HealthCheck struct {
	Status    string    `json:"status"`
	Cache     string    `json:"cache"`
	APIKey    bool      `json:"api_key_configured"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}
