package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "feedsync", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./data", cfg.StorageDir)
	assert.Equal(t, "accounts.yml", cfg.AccountsFile)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 1, cfg.RetryAttempts)
	assert.Equal(t, 100, cfg.FetchLimit)
	assert.False(t, cfg.FetchUnreadOnly)
	assert.False(t, cfg.LenientParse)
	assert.Equal(t, time.Duration(0), cfg.Retention)
	assert.Equal(t, time.Duration(0), cfg.RefreshInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVICE_NAME", "feedsync-test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_DIR", "/var/lib/feedsync")
	t.Setenv("HTTP_TIMEOUT", "30s")
	t.Setenv("RETRY_ATTEMPTS", "3")
	t.Setenv("FETCH_LIMIT", "250")
	t.Setenv("FETCH_UNREAD_ONLY", "true")
	t.Setenv("LENIENT_PARSE", "true")
	t.Setenv("ARTICLE_RETENTION", "720h")
	t.Setenv("REFRESH_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "feedsync-test", cfg.ServiceName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/feedsync", cfg.StorageDir)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 250, cfg.FetchLimit)
	assert.True(t, cfg.FetchUnreadOnly)
	assert.True(t, cfg.LenientParse)
	assert.Equal(t, 720*time.Hour, cfg.Retention)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	t.Setenv("FETCH_LIMIT", "many")
	t.Setenv("FETCH_UNREAD_ONLY", "yep")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 100, cfg.FetchLimit)
	assert.False(t, cfg.FetchUnreadOnly)
}

func TestValidate(t *testing.T) {
	valid := Config{
		StorageDir:   "./data",
		AccountsFile: "accounts.yml",
		HTTPTimeout:  time.Second,
		FetchLimit:   1,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty storage dir", func(c *Config) { c.StorageDir = "" }},
		{"empty accounts file", func(c *Config) { c.AccountsFile = "" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"zero fetch limit", func(c *Config) { c.FetchLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel(), tt.level)
	}
}
