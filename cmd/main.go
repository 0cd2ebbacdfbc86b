package main

import (
	"go.uber.org/zap"

	"github.com/shakgill786/luxury-car-service/internal/server"
	"github.com/shakgill786/luxury-car-service/pkg/config"
	"github.com/shakgill786/luxury-car-service/pkg/database"
	"github.com/shakgill786/luxury-car-service/pkg/logger"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	log, err := logger.InitLogger(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck
	log.Info("Starting spot service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Build the application and start serving
	e := server.New(cfg, log, db)

	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
