// Package config reads runtime configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultLogLevel      = "info"
	defaultProgressEvery = 500_000
)

// Config holds the process-level settings that are environment rather
// than per-run concerns. Per-run settings (filters, limits) come from CLI
// flags instead.
type Config struct {
	// SeqURL is the Seq ingestion endpoint for structured logs.
	// Empty means console-only logging.
	SeqURL string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// ProgressEvery controls how often progress is logged, in rows.
	ProgressEvery int64
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SeqURL:        os.Getenv("WPSQL_SEQ_URL"),
		LogLevel:      defaultLogLevel,
		ProgressEvery: defaultProgressEvery,
	}

	if v := os.Getenv("WPSQL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("WPSQL_PROGRESS_EVERY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid WPSQL_PROGRESS_EVERY %q: %w", v, err)
		}
		cfg.ProgressEvery = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var errs []string

	if _, err := c.Level(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.ProgressEvery < 0 {
		errs = append(errs, "WPSQL_PROGRESS_EVERY must be non-negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Level converts the configured log level to a slog.Level
func (c *Config) Level() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("WPSQL_LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.LogLevel)
	}
}
