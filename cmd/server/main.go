package main

import (
	"fmt"
	"log"

	"github.com/splitcart/backend/config"
	httpDelivery "github.com/splitcart/backend/internal/delivery/http"
	"github.com/splitcart/backend/internal/infrastructure/cache"
	"github.com/splitcart/backend/internal/infrastructure/liststore"
	"github.com/splitcart/backend/internal/infrastructure/pricing"
	"github.com/splitcart/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("pricing_base_url", cfg.Pricing.BaseURL).
		Msg("starting splitcart backend v1.0.0")

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	lists := liststore.New()

	pricingClient := pricing.NewClient(pricing.ClientConfig{
		APIKey:         cfg.Pricing.APIKey,
		BaseURL:        cfg.Pricing.BaseURL,
		Timeout:        cfg.Pricing.Timeout,
		RequestsPerMin: cfg.Pricing.RequestsPerMin,
		Burst:          cfg.Pricing.Burst,
	}, logger)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		pricingClient.SetDebug(true)
		logger.Info().Msg("pricing client debug mode enabled")
	}

	dispatcher := pricing.NewDispatcher(pricingClient, logger)

	// Initialize usecase layer
	compareService := usecase.NewCompareService(
		memoryCache,
		dispatcher,
		usecase.CompareServiceConfig{
			CacheTTL: cfg.Cache.TTL,
		},
		logger,
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(compareService, lists, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
