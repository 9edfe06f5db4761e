package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// Token verification trust anchors. All required: a process that cannot
	// verify tokens must not start.
	JWTAudience string `env:"JWT_AUDIENCE,required" validate:"required"`
	JWTIssuer   string `env:"JWT_ISSUER,required"   validate:"required"`
	JWKSURL     string `env:"JWKS_URL,required"     validate:"required,url"`

	// Comma-separated signature algorithm allow-list.
	JWTAlgs string `env:"JWT_ALGS" envDefault:"RS256" validate:"required"`

	JWKSFetchPerMinute  int `env:"JWKS_FETCH_PER_MINUTE"  envDefault:"5" validate:"min=1,max=60"`
	JWKSFetchTimeoutSec int `env:"JWKS_FETCH_TIMEOUT_SEC" envDefault:"5" validate:"min=1,max=30"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// AllowedAlgs splits JWT_ALGS into individual algorithm names.
func (c *Config) AllowedAlgs() []string {
	parts := strings.Split(c.JWTAlgs, ",")
	algs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			algs = append(algs, p)
		}
	}
	return algs
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
