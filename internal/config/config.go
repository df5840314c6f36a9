package config

import (
	"fmt"

	"loctext/internal/language"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	TableDir        string `env:"LOC_TABLE_DIR"        envDefault:"tables"`
	Language        string `env:"LOC_LANGUAGE"         envDefault:"English"`
	DefaultLanguage string `env:"LOC_DEFAULT_LANGUAGE" envDefault:"English"`
	DatabaseURL     string `env:"DATABASE_URL"         envDefault:"postgres://localhost:5432/loctext?sslmode=disable"`
	WorkerCount     int    `env:"WORKER_COUNT"         envDefault:"8"`
	LogLevel        string `env:"LOG_LEVEL"            envDefault:"info"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &cfg, nil
}

// DisplayLanguage parses LOC_LANGUAGE.
func (c *Config) DisplayLanguage() (language.Language, error) {
	l, err := language.Parse(c.Language)
	if err != nil {
		return 0, fmt.Errorf("LOC_LANGUAGE: %w", err)
	}
	return l, nil
}

// FallbackLanguage parses LOC_DEFAULT_LANGUAGE.
func (c *Config) FallbackLanguage() (language.Language, error) {
	l, err := language.Parse(c.DefaultLanguage)
	if err != nil {
		return 0, fmt.Errorf("LOC_DEFAULT_LANGUAGE: %w", err)
	}
	return l, nil
}

// Level returns the zerolog level for LOG_LEVEL, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
