// internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Load an optional .env file for local development.
//   - Parse environment variables into Config with defaults.
//   - Reject values the server cannot run with.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Question providers.
const (
	ProviderHTTP    = "http"
	ProviderOffline = "offline"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Store  string `env:"STORE" envDefault:"sqlite"`
	DBPath string `env:"DB_PATH" envDefault:"./data/galactic.db"`

	Provider        string        `env:"PROVIDER" envDefault:"http"`
	ProviderURL     string        `env:"PROVIDER_URL"`
	ProviderAPIKey  string        `env:"PROVIDER_API_KEY"`
	ProviderModel   string        `env:"PROVIDER_MODEL"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"20s"`
	ProviderRetries uint          `env:"PROVIDER_RETRIES" envDefault:"3"`

	TravelMin     time.Duration `env:"TRAVEL_MIN" envDefault:"2500ms"`
	TravelLanding time.Duration `env:"TRAVEL_LANDING" envDefault:"1500ms"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads files (a missing .env is fine), then the environment.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and range-limited values.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreSQLite, StoreMemory, c.Store)
	}
	switch c.Provider {
	case ProviderHTTP, ProviderOffline:
	default:
		return fmt.Errorf("PROVIDER must be %q or %q, got %q", ProviderHTTP, ProviderOffline, c.Provider)
	}
	if c.Store == StoreSQLite && c.DBPath == "" {
		return errors.New("DB_PATH is required for the sqlite store")
	}
	if c.TravelMin < 0 || c.TravelLanding < 0 {
		return errors.New("travel durations must not be negative")
	}
	if c.JWTExpiresDays <= 0 {
		return errors.New("JWT_EXPIRES_DAYS must be positive")
	}
	return nil
}

// Offline reports whether questions should come from the embedded bank.
// The HTTP provider needs a key; without one the game stays playable.
func (c Config) Offline() bool {
	return c.Provider == ProviderOffline || c.ProviderAPIKey == ""
}
