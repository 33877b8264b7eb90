package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dentalops/pricing-engine/internal/adapters/cache"
	"github.com/dentalops/pricing-engine/internal/adapters/database"
	"github.com/dentalops/pricing-engine/internal/adapters/events"
	"github.com/dentalops/pricing-engine/internal/api/handlers"
	"github.com/dentalops/pricing-engine/internal/api/routes"
	"github.com/dentalops/pricing-engine/internal/application/services"
	"github.com/dentalops/pricing-engine/internal/application/wizard"
	"github.com/dentalops/pricing-engine/internal/domain/providers"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	"github.com/dentalops/pricing-engine/internal/infrastructure/clients/postgres"
	"github.com/dentalops/pricing-engine/internal/infrastructure/clients/redis"
	"github.com/dentalops/pricing-engine/internal/infrastructure/observability"
	"github.com/dentalops/pricing-engine/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client. The application degrades gracefully
	// without it: no caching, no catalog change propagation.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	}

	// Initialize adapters
	baseSupplyAdapter := database.NewSupplyAdapter(pgClient)

	var supplyAdapter repositories.SupplyRepository
	if cacheProvider != nil {
		supplyAdapter = database.NewCachedSupplyAdapter(baseSupplyAdapter, cacheProvider)
		log.Info().Msg("supply adapter wrapped with caching layer")
	} else {
		supplyAdapter = baseSupplyAdapter
		log.Warn().Msg("supply adapter running without cache (Redis unavailable)")
	}

	timeSettingsAdapter := database.NewTimeSettingsAdapter(pgClient)
	fixedCostAdapter := database.NewFixedCostAdapter(pgClient)
	assetAdapter := database.NewAssetAdapter(pgClient)
	serviceAdapter := database.NewServiceAdapter(pgClient)

	// Initialize services
	timeSettingsService := services.NewTimeSettingsService(timeSettingsAdapter)
	fixedCostService := services.NewFixedCostService(fixedCostAdapter)
	assetCaptureService := services.NewAssetCaptureService(assetAdapter, fixedCostAdapter)
	supplyCatalogService := services.NewSupplyCatalogService(supplyAdapter, eventBus)
	serviceCatalogService := services.NewServiceCatalogService(serviceAdapter, supplyCatalogService)
	setupGateService := services.NewSetupGateService(timeSettingsAdapter, fixedCostAdapter, assetAdapter)

	// Initialize the wizard session manager
	wizardManager := wizard.NewManager(
		setupGateService,
		timeSettingsService,
		supplyCatalogService,
		assetCaptureService,
		serviceCatalogService,
		eventBus,
		time.Duration(cfg.Wizard.SessionTTLMinutes)*time.Minute,
	)
	wizardManager.SetMetrics(metrics)
	if err := wizardManager.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start wizard manager")
	}
	log.Info().Msg("wizard session manager started")

	// Initialize handlers
	setupHandler := handlers.NewSetupHandler(setupGateService)
	timeSettingsHandler := handlers.NewTimeSettingsHandler(timeSettingsService)
	fixedCostHandler := handlers.NewFixedCostHandler(fixedCostService)
	assetHandler := handlers.NewAssetHandler(assetCaptureService)
	supplyHandler := handlers.NewSupplyHandler(supplyCatalogService)
	serviceHandler := handlers.NewServiceHandler(serviceCatalogService)
	wizardHandler := handlers.NewWizardHandler(wizardManager)

	// Set up router
	router := routes.NewRouter(
		setupHandler,
		timeSettingsHandler,
		fixedCostHandler,
		assetHandler,
		supplyHandler,
		serviceHandler,
		wizardHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	wizardManager.Stop()

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
