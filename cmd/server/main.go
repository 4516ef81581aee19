package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/fyyur-backend/config"
	"github.com/ikkim/fyyur-backend/internal/app/controller"
	"github.com/ikkim/fyyur-backend/internal/app/repository"
	"github.com/ikkim/fyyur-backend/internal/app/service"
	"github.com/ikkim/fyyur-backend/internal/db"
	"github.com/ikkim/fyyur-backend/internal/middleware"
	"github.com/ikkim/fyyur-backend/internal/render"
	"github.com/ikkim/fyyur-backend/internal/router"
	"github.com/ikkim/fyyur-backend/internal/storage"
	"github.com/ikkim/fyyur-backend/internal/validation"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"github.com/ikkim/fyyur-backend/pkg/redis"
)

const (
	flashTTL        = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Fyyur server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"flash_store": cfg.Flash.Store,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(db.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if cfg.Server.SeedSample {
		if err := db.SeedSampleData(db.GetDB()); err != nil {
			logger.Warn("Failed to seed sample data", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if err := validation.Register(); err != nil {
		logger.Fatal("Failed to register form validators", err)
	}

	flashStore := newFlashStore(cfg)
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Image uploads are optional
	var uploader storage.ImageUploader
	if cfg.S3.Enabled() {
		s3Storage, err := storage.NewS3Storage(context.Background(), &cfg.S3)
		if err != nil {
			logger.Warn("Image uploads disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			uploader = s3Storage
		}
	}

	renderer, err := render.New()
	if err != nil {
		logger.Fatal("Failed to parse templates", err)
	}

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.NewMetrics()
	}

	// Initialize repositories
	venueRepo := repository.NewVenueRepository(db.GetDB())
	artistRepo := repository.NewArtistRepository(db.GetDB())
	showRepo := repository.NewShowRepository(db.GetDB())
	genreRepo := repository.NewGenreRepository(db.GetDB())

	// Initialize services
	venueService := service.NewVenueService(venueRepo, genreRepo, service.SystemClock)
	artistService := service.NewArtistService(artistRepo, genreRepo, service.SystemClock)
	showService := service.NewShowService(db.GetDB(), showRepo, venueRepo, artistRepo)

	// Initialize controllers
	homeController := controller.NewHomeController(venueService, artistService)
	venueController := controller.NewVenueController(venueService, metrics)
	artistController := controller.NewArtistController(artistService, metrics)
	showController := controller.NewShowController(showService, metrics)
	uploadController := controller.NewUploadController(uploader)
	healthController := controller.NewHealthController(db.GetDB())

	// Setup router
	r := router.NewRouter(
		homeController,
		venueController,
		artistController,
		showController,
		uploadController,
		healthController,
		flashStore,
		metrics,
		renderer,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	logger.Info("Server stopped successfully")
}

// newFlashStore picks the flash backend. A Redis store that cannot be
// reached falls back to cookies so the site keeps working.
func newFlashStore(cfg *config.Config) middleware.FlashStore {
	if cfg.Flash.Store != "redis" {
		return middleware.NewCookieFlashStore(cfg.Flash.CookieName)
	}

	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, keeping flash messages in cookies", map[string]interface{}{
			"error": err.Error(),
		})
		return middleware.NewCookieFlashStore(cfg.Flash.CookieName)
	}
	return middleware.NewRedisFlashStore(cfg.Flash.CookieName, redis.NewFlashStore(redis.GetClient(), flashTTL))
}
