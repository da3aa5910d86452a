package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dalfonso89/rates-proxy/internal/cache"
	"github.com/dalfonso89/rates-proxy/internal/config"
	"github.com/dalfonso89/rates-proxy/internal/middleware"
	"github.com/dalfonso89/rates-proxy/internal/models"
	"github.com/dalfonso89/rates-proxy/internal/service"
)

const (
	jsonContentType = "application/json"
	version         = "1.0.0"

	maxAmountLength        = 64
	maxAmountDecimalPlaces = 32
)

// HandlerConfig carries the shared, read-only dependencies of the handlers
type HandlerConfig struct {
	Configuration *config.Config
	Logger        *logrus.Logger
	RatesService  *service.RatesService
	Store         cache.Store
}

// Handlers contains all HTTP handlers
type Handlers struct {
	configuration *config.Config
	logger        *logrus.Logger
	ratesService  *service.RatesService
	store         cache.Store
	startTime     time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(handlerConfig HandlerConfig) *Handlers {
	return &Handlers{
		configuration: handlerConfig.Configuration,
		logger:        handlerConfig.Logger,
		ratesService:  handlerConfig.RatesService,
		store:         handlerConfig.Store,
		startTime:     time.Now(),
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(handlers.configuration.CORSAllowedOrigins))

	router.GET("/", handlers.GetDefaultRates)
	router.GET("/rates/:base_currency", handlers.GetRates)
	router.GET("/convert/:base_currency/:target_currency/:amount", handlers.Convert)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// GetDefaultRates returns the latest rates for the default currency
func (handlers *Handlers) GetDefaultRates(context *gin.Context) {
	handlers.execute(context, models.LatestRates(config.DefaultCurrency))
}

// GetRates returns the latest rates for the base currency in the path.
// The code is passed through as-is; "usd" and "USD" are cached separately.
func (handlers *Handlers) GetRates(context *gin.Context) {
	handlers.execute(context, models.LatestRates(context.Param("base_currency")))
}

// Convert converts an amount between two currencies
func (handlers *Handlers) Convert(context *gin.Context) {
	amount, parseError := ParseAmount(context.Param("amount"))
	if parseError != nil {
		handlers.writeServiceError(context, parseError)
		return
	}

	handlers.execute(context, models.Convert(
		context.Param("base_currency"),
		context.Param("target_currency"),
		amount,
	))
}

// ParseAmount validates the amount path parameter before any upstream call.
// The amount must be a finite float64 with a bounded number of decimal places.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if len(raw) > maxAmountLength {
		return decimal.Decimal{}, service.NewValidationError("amount is too long", nil)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, service.NewValidationError("amount must be a number", err)
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Decimal{}, service.NewValidationError("amount is out of range", err)
	}
	if amount.Exponent() < -maxAmountDecimalPlaces {
		return decimal.Decimal{}, service.NewValidationError("amount is out of range", nil)
	}

	return amount, nil
}

// HealthCheck reports liveness and cache connectivity
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	healthStatus, cacheStatus, statusCode := "healthy", "up", http.StatusOK
	if err := handlers.store.Ping(context.Request.Context()); err != nil {
		handlers.logger.Warnf("Cache health check failed: %v", err)
		healthStatus, cacheStatus, statusCode = "degraded", "down", http.StatusServiceUnavailable
	}

	context.JSON(statusCode, models.HealthCheck{
		Status:    healthStatus,
		Cache:     cacheStatus,
		APIKey:    handlers.configuration.HasAPIKey(),
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(handlers.startTime).String(),
	})
}

func (handlers *Handlers) execute(context *gin.Context, operation models.Operation) {
	payload, err := handlers.ratesService.Execute(context.Request.Context(), operation)
	if err != nil {
		handlers.writeServiceError(context, err)
		return
	}

	context.Data(http.StatusOK, jsonContentType, payload)
}

// writeServiceError converts a business error into a stable status and message
func (handlers *Handlers) writeServiceError(context *gin.Context, err error) {
	_ = context.Error(err)

	serviceError, ok := service.AsServiceError(err)
	if !ok {
		handlers.logger.Errorf("Unclassified error: %v", err)
		handlers.writeErrorResponse(context, http.StatusInternalServerError, "Internal server error", "unexpected failure")
		return
	}

	handlers.writeErrorResponse(context, serviceError.Type.StatusCode(), serviceError.Type.PublicMessage(), serviceError.Message)
}

// writeErrorResponse writes an error response using Gin context
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage, errorDetails string) {
	context.JSON(statusCode, models.ErrorResponse{
		Error:   errorMessage,
		Message: errorDetails,
		Code:    statusCode,
	})
}
