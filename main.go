package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/patrickmn/go-cache"

	database "github.com/tripwiseai/go-trip-planner/app/db"
	appLogger "github.com/tripwiseai/go-trip-planner/app/logger"
	"github.com/tripwiseai/go-trip-planner/app/observability/metrics"
	"github.com/tripwiseai/go-trip-planner/app/tracer"
	"github.com/tripwiseai/go-trip-planner/config"
	"github.com/tripwiseai/go-trip-planner/internal/api/attractions"
	"github.com/tripwiseai/go-trip-planner/internal/api/flights"
	generativeAI "github.com/tripwiseai/go-trip-planner/internal/api/generative_ai"
	"github.com/tripwiseai/go-trip-planner/internal/api/hotels"
	"github.com/tripwiseai/go-trip-planner/internal/api/restaurants"
	"github.com/tripwiseai/go-trip-planner/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations *before* initializing the main pool
	err = database.RunMigrations(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- External Clients ---
	embeddingService, err := generativeAI.NewEmbeddingService(ctx, cfg.Gemini.EmbeddingModel, logger)
	if err != nil {
		logger.Error("Failed to initialize embedding service", slog.Any("error", err))
		os.Exit(1)
	}

	serpAPIKey := os.Getenv("SERP_API_KEY")
	if serpAPIKey == "" {
		logger.Error("SERP_API_KEY environment variable not set")
		os.Exit(1)
	}
	serpClient := flights.NewSerpClient(
		cfg.Provider.BaseURL,
		serpAPIKey,
		cfg.Provider.Timeout,
		cfg.Provider.RPS,
		cfg.Provider.Burst,
		logger,
	)

	restaurantCache := cache.New(cfg.Cache.RestaurantTTL, cfg.Cache.CleanupInterval)

	// --- Dependency Injection ---
	flightService := flights.NewFlightService(serpClient, logger)
	flightsHandler := flights.NewFlightsHandler(flightService, logger)

	hotelRepo := hotels.NewRepository(pool, logger)
	hotelService := hotels.NewHotelService(
		hotelRepo,
		embeddingService,
		cfg.Retrieval.TopK,
		cfg.Retrieval.SimilarityThreshold,
		logger,
	)
	hotelsHandler := hotels.NewHotelsHandler(hotelService, logger)

	restaurantRepo := restaurants.NewRepository(pool, logger)
	restaurantService := restaurants.NewRestaurantService(restaurantRepo, restaurantCache, logger)
	restaurantsHandler := restaurants.NewRestaurantsHandler(restaurantService, logger)

	attractionService := attractions.NewAttractionService(cfg.Provider.BaseURL, serpAPIKey, cfg.Provider.Timeout, logger)
	attractionsHandler := attractions.NewAttractionsHandler(attractionService, logger)

	// --- Router Setup ---
	routerConfig := &router.Config{
		FlightsHandler:     flightsHandler,
		HotelsHandler:      hotelsHandler,
		RestaurantsHandler: restaurantsHandler,
		AttractionsHandler: attractionsHandler,
	}
	mainRouter := router.SetupRouter(routerConfig)

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
