package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/carbonsense/backend/internal/config"
	"github.com/carbonsense/backend/internal/delivery/http"
	"github.com/carbonsense/backend/internal/domain"
	"github.com/carbonsense/backend/internal/logging"
	"github.com/carbonsense/backend/internal/repository/postgres"
	"github.com/carbonsense/backend/internal/repository/redis"
	"github.com/carbonsense/backend/internal/service"
)

func main() {
	// Bootstrap logger until .env has been read
	logging.Setup(os.Getenv("GO_ENV"))

	// Configuration
	cfg := config.Load()
	logging.Setup(cfg.Env)
	if !cfg.DotEnvLoaded {
		log.Debug().Msg("No .env file found, using system environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dependency Injection: Repositories
	var activityRepo service.ActivityRepository = postgres.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("Could not connect to database, keeping activities in memory")
		} else {
			defer pool.Close()
			repo := postgres.NewPostgresRepository(pool)
			if err := repo.Migrate(ctx); err != nil {
				log.Warn().Err(err).Msg("Could not migrate database, keeping activities in memory")
			} else {
				activityRepo = repo
				log.Info().Msg("Connected to PostgreSQL")
			}
		}
	}

	// Climatiq client, optionally behind a factor cache
	var factorClient service.FactorClient
	if cfg.HasClimatiqCredential() {
		factorClient = service.NewClimatiqClient(cfg.ClimatiqBaseURL, cfg.ClimatiqAPIKey, cfg.ClimatiqRateLimit)
		if cfg.FactorCacheTTL > 0 {
			factorClient = service.NewCachedFactorClient(factorClient, newFactorCache(ctx, cfg), cfg.FactorCacheTTL)
		}
		log.Info().Str("base_url", cfg.ClimatiqBaseURL).Msg("Climatiq estimates enabled")
	} else {
		log.Warn().Msg("No Climatiq key configured, every estimate uses local factors")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	// Dependency Injection: Services
	estimator := service.NewEstimator(factorClient, domain.DefaultFactors(), cfg.ClimatiqTimeout, metrics)
	activitySvc := service.NewActivityService(activityRepo)
	handler := http.NewHandler(estimator, activitySvc)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "CarbonSense API v1.0",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: http.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(http.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, handler, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Str("mode", string(estimator.Mode())).Msg("Server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

// newFactorCache prefers Redis so several instances share results
func newFactorCache(ctx context.Context, cfg *config.Config) service.FactorCache {
	if cfg.RedisURL == "" {
		return service.NewMemoryFactorCache()
	}

	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid REDIS_URL, caching factors in memory")
		return service.NewMemoryFactorCache()
	}

	cache := redis.NewFactorCache(client)
	if err := cache.Health(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, caching factors in memory")
		_ = client.Close()
		return service.NewMemoryFactorCache()
	}

	log.Info().Msg("Caching Climatiq factors in Redis")
	return cache
}
