package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration, populated from the environment
type Config struct {
	Port      string `env:"PORT" envDefault:":8080"`
	DBPath    string `env:"DB_PATH" envDefault:"./data/territory.db"`
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-me-in-production"`

	// Claim submissions per user within the window
	SubmitRateLimit  int           `env:"SUBMIT_RATE_LIMIT" envDefault:"10"`
	SubmitRateWindow time.Duration `env:"SUBMIT_RATE_WINDOW" envDefault:"1m"`
}

// Load parses the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
