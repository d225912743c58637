package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"gogo-api/config"
	"gogo-api/database"
	"gogo-api/logger"
	"gogo-api/middleware"
	"gogo-api/realtime"
	"gogo-api/routes"
	"gogo-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Init()
	defer logger.Sync()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	// Websocket hub
	hub := realtime.NewHub()

	// Services
	emailService := services.NewEmailService(cfg)
	pushService := services.NewPushService(cfg)
	geocodingService := services.NewGeocodingService(cfg.Geocoding)

	imageService, err := services.NewImageService(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", "error", err)
	}
	if err := imageService.EnsureBucket(context.Background()); err != nil {
		logger.Warn("Failed to ensure image bucket", "error", err)
	}

	// Set Gin mode based on environment
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Setup routes
	routes.SetupRoutes(router, db, cfg, hub, emailService, imageService, pushService, geocodingService)

	logger.Info("Starting GoGo API server", "port", cfg.Port, "env", cfg.Env)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", "error", err)
	}
}
