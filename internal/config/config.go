// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	Port string
	Host string

	// Database settings
	DBPath string

	// Logging
	LogLevel  string
	LogFormat string

	// APITokenHash is the bcrypt hash of the API token. Empty disables token auth.
	APITokenHash string

	// Market data settings
	MarketDataURL     string
	MarketDataTimeout time.Duration
	MarketDataRate    float64 // requests per second
	QuoteCacheTTL     time.Duration

	// Projection settings
	FIREMaxYears int
	Currency     string

	DemoMode bool
}

// Load reads configuration from the environment, after loading a .env file if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("HOST", "localhost")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PATH", filepath.Join("data", "finance.db"))
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("API_TOKEN_HASH", "")
	v.SetDefault("MARKET_DATA_URL", "https://query1.finance.yahoo.com")
	v.SetDefault("MARKET_DATA_TIMEOUT", "10s")
	v.SetDefault("MARKET_DATA_RATE", 2)
	v.SetDefault("QUOTE_CACHE_TTL", "5m")
	v.SetDefault("FIRE_MAX_YEARS", 300)
	v.SetDefault("CURRENCY", "USD")
	v.SetDefault("DEMO_MODE", false)
	v.AutomaticEnv()

	cfg := &Config{
		Port:          v.GetString("PORT"),
		Host:          v.GetString("HOST"),
		DBPath:        v.GetString("DB_PATH"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		APITokenHash:  v.GetString("API_TOKEN_HASH"),
		MarketDataURL: v.GetString("MARKET_DATA_URL"),
		Currency:      v.GetString("CURRENCY"),
		DemoMode:      v.GetBool("DEMO_MODE"),
	}

	var err error
	if cfg.MarketDataTimeout, err = duration(v, "MARKET_DATA_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.QuoteCacheTTL, err = duration(v, "QUOTE_CACHE_TTL"); err != nil {
		return nil, err
	}

	// viper's GetFloat64/GetInt return zero on garbage, so parse explicitly.
	if _, err := fmt.Sscan(v.GetString("MARKET_DATA_RATE"), &cfg.MarketDataRate); err != nil || cfg.MarketDataRate <= 0 {
		return nil, fmt.Errorf("invalid MARKET_DATA_RATE %q: must be a positive number", v.GetString("MARKET_DATA_RATE"))
	}
	if _, err := fmt.Sscan(v.GetString("FIRE_MAX_YEARS"), &cfg.FIREMaxYears); err != nil || cfg.FIREMaxYears <= 0 {
		return nil, fmt.Errorf("invalid FIRE_MAX_YEARS %q: must be a positive integer", v.GetString("FIRE_MAX_YEARS"))
	}

	return cfg, nil
}

// Address returns the full address to bind the server to.
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
