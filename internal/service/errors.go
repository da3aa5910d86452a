package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies failures surfaced to HTTP clients
type ErrorType int

const (
	// ErrorTypeConfiguration means a required secret is absent; retrying cannot help
	ErrorTypeConfiguration ErrorType = iota
	// ErrorTypeUpstream means the rate provider failed or answered with a non-200 status
	ErrorTypeUpstream
	// ErrorTypeValidation means a request parameter was malformed
	ErrorTypeValidation
)

const (
	configurationErrorMessage = "Server encountered an error. Please ensure that CONVERTER_API_KEY is set."
	upstreamErrorMessage      = "Server is unable to complete the request at the moment. Please try again later."
	validationErrorMessage    = "Invalid request parameters."
)

// StatusCode maps the error type onto the HTTP status returned to clients
func (errorType ErrorType) StatusCode() int {
	switch errorType {
	case ErrorTypeConfiguration:
		return http.StatusInternalServerError
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	case ErrorTypeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the stable, human readable message for the error type
func (errorType ErrorType) PublicMessage() string {
	switch errorType {
	case ErrorTypeConfiguration:
		return configurationErrorMessage
	case ErrorTypeUpstream:
		return upstreamErrorMessage
	case ErrorTypeValidation:
		return validationErrorMessage
	default:
		return configurationErrorMessage
	}
}

func (errorType ErrorType) String() string {
	switch errorType {
	case ErrorTypeConfiguration:
		return "configuration"
	case ErrorTypeUpstream:
		return "upstream"
	case ErrorTypeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ServiceError represents a service-specific error with type information
type ServiceError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError reports a missing upstream API key
func NewConfigurationError() *ServiceError {
	return &ServiceError{
		Type:    ErrorTypeConfiguration,
		Message: "upstream API key is not configured",
	}
}

// NewUpstreamError reports an upstream failure; cause may be nil for a bad status
func NewUpstreamError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:    ErrorTypeUpstream,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError reports a malformed request parameter
func NewValidationError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
	}
}

// AsServiceError extracts a ServiceError from err, if any
func AsServiceError(err error) (*ServiceError, bool) {
	var serviceError *ServiceError
	if errors.As(err, &serviceError) {
		return serviceError, true
	}
	return nil, false
}
