package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorType_StatusCode(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  int
	}{
		{ErrorTypeConfiguration, http.StatusInternalServerError},
		{ErrorTypeUpstream, http.StatusBadGateway},
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorType(99), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.errorType.String(), func(t *testing.T) {
			if got := tt.errorType.StatusCode(); got != tt.expected {
				t.Errorf("StatusCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestErrorType_PublicMessage(t *testing.T) {
	if got := ErrorTypeConfiguration.PublicMessage(); got != "Server encountered an error. Please ensure that CONVERTER_API_KEY is set." {
		t.Errorf("configuration message = %q", got)
	}
	if got := ErrorTypeUpstream.PublicMessage(); got != "Server is unable to complete the request at the moment. Please try again later." {
		t.Errorf("upstream message = %q", got)
	}
}

func TestServiceError_Wrapping(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("fetch: %w", NewUpstreamError("upstream request failed", cause))

	serviceError, ok := AsServiceError(err)
	if !ok {
		t.Fatal("AsServiceError() did not find wrapped ServiceError")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not reach the cause")
	}
	if serviceError.Error() != "upstream request failed: dial tcp: connection refused" {
		t.Errorf("Error() = %q", serviceError.Error())
	}

	if _, ok := AsServiceError(errors.New("plain")); ok {
		t.Error("AsServiceError() matched a plain error")
	}
	if NewConfigurationError().Error() != "upstream API key is not configured" {
		t.Errorf("configuration Error() = %q", NewConfigurationError().Error())
	}
}
