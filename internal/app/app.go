// Package app wires configuration, storage, market data and services into one
// application shared by the HTTP server and the command line tool.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"finance_tracker/internal/auth"
	"finance_tracker/internal/config"
	"finance_tracker/internal/database"
	"finance_tracker/internal/demo"
	"finance_tracker/internal/handlers"
	"finance_tracker/internal/marketdata"
	"finance_tracker/internal/services"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	DB       *database.DB
	Provider marketdata.Provider
	Services *services.Services
	Log      *logrus.Logger
}

// New opens the database, runs migrations and wires the services. Demo mode
// prices against fixed quotes instead of the live market data endpoint.
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	db, err := database.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.WithField("path", cfg.DBPath).Debug("Database migrations completed")

	var provider marketdata.Provider
	if cfg.DemoMode {
		provider = demo.Quotes()
	} else {
		provider = marketdata.NewYahooClient(marketdata.YahooConfig{
			BaseURL:       cfg.MarketDataURL,
			Timeout:       cfg.MarketDataTimeout,
			RatePerSecond: cfg.MarketDataRate,
			CacheTTL:      cfg.QuoteCacheTTL,
		}, log)
	}

	return &App{
		Config:   cfg,
		DB:       db,
		Provider: provider,
		Services: services.New(db, provider, cfg.FIREMaxYears, log),
		Log:      log,
	}, nil
}

// SeedDemo seeds the demo user when demo mode is on and the database is empty.
func (a *App) SeedDemo(ctx context.Context, today time.Time) error {
	if !a.Config.DemoMode {
		return nil
	}
	return demo.NewSeeder(a.Services, a.Log).SeedIfEmpty(ctx, today)
}

// Dependencies returns the HTTP handler dependencies for this application.
func (a *App) Dependencies() *handlers.Dependencies {
	return handlers.NewDependencies().
		WithServices(a.Services).
		WithVerifier(auth.NewVerifier(a.Config.APITokenHash)).
		WithLogger(a.Log).
		WithDemoMode(a.Config.DemoMode)
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
