package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"finance_tracker/internal/app"
	"finance_tracker/internal/calendar"
	"finance_tracker/internal/config"
	"finance_tracker/internal/handlers"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer application.Close()

	if err := application.SeedDemo(context.Background(), calendar.Today()); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
	if cfg.APITokenHash == "" {
		log.Warn("API_TOKEN_HASH is not set, the API is open to anyone who can reach it")
	}

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handlers.NewRouter(application.Dependencies()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"address": cfg.Address(),
			"demo":    cfg.DemoMode,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
