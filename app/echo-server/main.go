package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelDiscovery/app/echo-server/metrics"
	"travelDiscovery/app/echo-server/router"
	"travelDiscovery/business/place"
	"travelDiscovery/business/recommendation"
	"travelDiscovery/domain"
	"travelDiscovery/internal/middleware"
	"travelDiscovery/internal/repository/gemini"
	psqlRepo "travelDiscovery/internal/repository/postgres"
	redisRepo "travelDiscovery/internal/repository/redis"
	"travelDiscovery/internal/rest"
	"travelDiscovery/pkg/config"
	"travelDiscovery/pkg/database"
	redisdb "travelDiscovery/pkg/database/redis"
	"travelDiscovery/pkg/logger"
	recoMetrics "travelDiscovery/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Travel Discovery API", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Place cache is optional
	var placeCache place.PlaceCache
	if cfg.Redis.Enabled {
		rdb, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, place cache disabled", "error", err)
		} else {
			defer func() {
				if err := redisdb.CloseRedisClient(rdb); err != nil {
					logger.Error("Failed to close redis", "error", err)
				}
			}()
			placeCache = redisRepo.NewPlaceCache(rdb, 0, 0)
		}
	}

	// Generative criteria service is optional. Keep the interface nil when absent.
	var generator recommendation.Generator
	geminiClient, err := gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout,
	})
	switch {
	case errors.Is(err, domain.ErrGeneratorNotConfigured):
		logger.Info("Generative service not configured, using default criteria")
	case err != nil:
		logger.Fatal("Failed to init generative client", "error", err)
	default:
		generator = geminiClient
	}

	// Init repo
	placeRepo := psqlRepo.NewPlaceRepository(db)
	historyRepo := psqlRepo.NewUserHistoryRepository(db)
	recoConfigRepo := psqlRepo.NewRecommendationConfigRepository(db)

	// Init service
	recoCfg := recommendationConfig(cfg.Recommendation)
	placeService := place.NewPlaceService(placeRepo, placeCache)
	recoService := recommendation.NewService(
		placeRepo,
		historyRepo,
		recoConfigRepo,
		generator,
		recommendation.MustLoadLocaleTable(),
		recoCfg,
	)

	// Init handler
	placeHandler := rest.NewPlaceHandler(placeService)
	recoHandler := rest.NewRecommendationHandler(recoService)
	recoAdminHandler := rest.NewRecommendationAdminHandler(recoService)

	recoMetrics.Init()
	metrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupPlaceRoutes(api, placeHandler)
	router.SetRecommendationRoutes(api, recoHandler, authRequired)
	router.SetRecommendationAdminRoutes(api, recoAdminHandler, authRequired, adminOnly)
	router.SetOpsRoutes(e)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Server stopped")
}

func recommendationConfig(c config.RecommendationConfig) recommendation.Config {
	out := recommendation.DefaultConfig()
	if c.SavedWindow > 0 {
		out.SavedWindow = c.SavedWindow
	}
	if c.TripWindow > 0 {
		out.TripWindow = c.TripWindow
	}
	if c.RatingWindow > 0 {
		out.RatingWindow = c.RatingWindow
	}
	if c.MaxResultsCap > 0 {
		out.MaxResultsCap = c.MaxResultsCap
	}
	if c.AssistTimeout > 0 {
		out.AssistTimeout = c.AssistTimeout
	}
	if c.ConfigScope != "" {
		out.Scope = c.ConfigScope
	}
	return out
}
