// Package config loads the service configuration from environment
// variables and the YAML accounts file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the feedsync service.
type Config struct {
	ServiceName string
	LogLevel    string

	// Storage configuration.
	StorageDir   string
	AccountsFile string

	// Fetch configuration.
	HTTPTimeout     time.Duration
	RetryAttempts   int
	FetchLimit      int
	FetchUnreadOnly bool
	LenientParse    bool

	// Retention prunes read, unstarred articles older than the window at
	// commit; zero keeps articles forever.
	Retention time.Duration

	// Refresh scheduling; zero means run once and exit.
	RefreshInterval time.Duration
}

// Load reads configuration from environment variables, applying
// defaults for everything optional.
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName:     getEnvOrDefault("SERVICE_NAME", "feedsync"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		StorageDir:      getEnvOrDefault("STORAGE_DIR", "./data"),
		AccountsFile:    getEnvOrDefault("ACCOUNTS_FILE", "accounts.yml"),
		HTTPTimeout:     getDurationOrDefault("HTTP_TIMEOUT", 15*time.Second),
		RetryAttempts:   getIntOrDefault("RETRY_ATTEMPTS", 1),
		FetchLimit:      getIntOrDefault("FETCH_LIMIT", 100),
		FetchUnreadOnly: getBoolOrDefault("FETCH_UNREAD_ONLY", false),
		LenientParse:    getBoolOrDefault("LENIENT_PARSE", false),
		Retention:       getDurationOrDefault("ARTICLE_RETENTION", 0),
		RefreshInterval: getDurationOrDefault("REFRESH_INTERVAL", 0),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.StorageDir == "" {
		return fmt.Errorf("STORAGE_DIR is required")
	}
	if c.AccountsFile == "" {
		return fmt.Errorf("ACCOUNTS_FILE is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("FETCH_LIMIT must be positive")
	}
	return nil
}

// SlogLevel maps the configured log level string to a slog level.
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

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntOrDefault(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolOrDefault(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
