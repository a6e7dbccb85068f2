package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/esim-pricing-service/internal/cache"
	"github.com/anyulbade/esim-pricing-service/internal/config"
	"github.com/anyulbade/esim-pricing-service/internal/database"
	"github.com/anyulbade/esim-pricing-service/internal/handler"
	"github.com/anyulbade/esim-pricing-service/internal/middleware"
	"github.com/anyulbade/esim-pricing-service/internal/repository"
	"github.com/anyulbade/esim-pricing-service/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	settings, closeSettings, err := newSettingsStore(ctx, cfg, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up pricing settings store")
	}
	defer closeSettings()

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool)
	router.GET("/health", healthHandler.Health)

	handler.SetupSwagger(router, handler.DefaultSwaggerDoc)
	setupAPIRoutes(router, pool, settings)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// newSettingsStore picks the configured settings backend and, when Redis is
// configured, puts the read-through cache in front of it.
func newSettingsStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (service.SettingsStore, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store service.SettingsStore
	switch cfg.SettingsBackend {
	case config.SettingsBackendFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() { _ = client.Close() })
		store = repository.NewFirestoreSettingsRepository(client)
	default:
		store = repository.NewSettingsRepository(pool)
	}

	log.Info().
		Str("settings_source", cfg.SettingsBackend).
		Bool("cache_enabled", cfg.CacheEnabled()).
		Msg("pricing settings store ready")

	if !cfg.CacheEnabled() {
		return store, closeAll, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	closers = append(closers, func() { _ = rdb.Close() })
	if err := rdb.Ping(ctx).Err(); err != nil {
		// The cache falls back to the source on every Redis error.
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable at startup")
	}

	return cache.NewSettingsCache(rdb, store, cfg.SettingsCacheTTL), closeAll, nil
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, settings service.SettingsStore) {
	planRepo := repository.NewPlanRepository(pool)
	referralRepo := repository.NewReferralRepository(pool)

	quoteService := service.NewQuoteService(planRepo, referralRepo, settings)
	previewService := service.NewPreviewService(settings)
	settingsService := service.NewSettingsService(settings)

	quoteHandler := handler.NewQuoteHandler(quoteService)
	pricingHandler := handler.NewPricingHandler(previewService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	api := router.Group("/api/v1")
	{
		api.POST("/quotes", quoteHandler.Create)
		api.GET("/plans", quoteHandler.ListPlans)
		api.GET("/countries", quoteHandler.ListCountries)
		api.POST("/pricing/preview", pricingHandler.Preview)
		api.POST("/pricing/compute", pricingHandler.Compute)
		api.GET("/settings/pricing", settingsHandler.Get)
		api.PUT("/settings/pricing", settingsHandler.Update)
		api.POST("/settings/pricing/reset", settingsHandler.Reset)
	}
}
