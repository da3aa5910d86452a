package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOperation_CacheKey(t *testing.T) {
	tests := []struct {
		name      string
		operation Operation
		key       string
		cacheable bool
	}{
		{"latest upper case", LatestRates("USD"), "USD", true},
		{"latest lower case is not normalized", LatestRates("usd"), "usd", true},
		{"convert is never cached", Convert("USD", "EUR", decimal.NewFromInt(100)), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, cacheable := tt.operation.CacheKey()
			if key != tt.key || cacheable != tt.cacheable {
				t.Errorf("CacheKey() = (%q, %v), want (%q, %v)", key, cacheable, tt.key, tt.cacheable)
			}
		})
	}
}

func TestOperation_String(t *testing.T) {
	if got := LatestRates("GBP").String(); got != "latest GBP" {
		t.Errorf("String() = %q", got)
	}
	if got := Convert("USD", "EUR", decimal.RequireFromString("12.5")).String(); got != "convert 12.5 USD->EUR" {
		t.Errorf("String() = %q", got)
	}
}

func TestOperationKind_String(t *testing.T) {
	if OperationLatestRates.String() != "latest" {
		t.Errorf("OperationLatestRates.String() = %q", OperationLatestRates.String())
	}
	if OperationConvert.String() != "convert" {
		t.Errorf("OperationConvert.String() = %q", OperationConvert.String())
	}
	if OperationKind(42).String() != "unknown" {
		t.Errorf("OperationKind(42).String() = %q", OperationKind(42).String())
	}
}
