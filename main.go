package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/rates-proxy/internal/api"
	"github.com/dalfonso89/rates-proxy/internal/cache"
	"github.com/dalfonso89/rates-proxy/internal/config"
	"github.com/dalfonso89/rates-proxy/internal/logger"
	"github.com/dalfonso89/rates-proxy/internal/platform"
	"github.com/dalfonso89/rates-proxy/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.LogLevel)

	if !cfg.HasAPIKey() {
		logger.Warn("CONVERTER_API_KEY is not set; cache misses and conversions will fail with 500")
	}

	// Connect to the cache eagerly; an unreachable cache is a startup error only
	store := cache.NewRedisStore(cfg.Cache.Options, cfg.Cache.Timeout)
	defer store.Close()

	pingContext, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	pingError := store.Ping(pingContext)
	cancelPing()
	if pingError != nil {
		logger.Fatalf("Failed to connect to Redis at %s: %v", cfg.Cache.Options.Addr, pingError)
	}
	logger.Infof("Connected to Redis at %s", cfg.Cache.Options.Addr)

	// Initialize services
	provider := service.NewHTTPRatesProvider(cfg.Upstream, logger)
	ratesService := service.NewRatesService(cfg, logger, provider, store)

	// Initialize HTTP handlers
	handlers := api.NewHandlers(api.HandlerConfig{
		Configuration: cfg,
		Logger:        logger,
		RatesService:  ratesService,
		Store:         store,
	})

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdownContext, stop := platform.NewShutdownContext(context.Background())
	defer stop()

	logger.Info("Starting rates proxy on port " + cfg.Port)
	if err := platform.Serve(shutdownContext, server, 30*time.Second); err != nil {
		logger.Errorf("Server stopped with error: %v", err)
		return
	}

	logger.Info("Server exited")
}
