package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/api"
	"github.com/vetdesk/posapi/internal/clinic"
	"github.com/vetdesk/posapi/internal/config"
	"github.com/vetdesk/posapi/internal/pos"
	"github.com/vetdesk/posapi/internal/service"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting POS API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("clinic_api", cfg.Clinic.BaseURL),
	)

	// Sessions live only in memory; the clinic backend owns all durable state
	store := pos.NewMemoryStore()

	// Clinic backend client and checkout service
	backend := clinic.NewClient(cfg.Clinic, logger)
	checkout := service.NewCheckoutService(store, backend, logger)

	// Initialize router
	router := api.NewRouter(cfg, store, backend, checkout, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Session sweeper: drop registers idle past the TTL
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go pos.RunSessionSweeper(sweepCtx, store, cfg.POS.SessionTTL, logger)
	logger.Info("Session sweeper started", zap.Duration("ttl", cfg.POS.SessionTTL))

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopSweeper()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
