package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 100, cfg.MaxDealAttempts)
	assert.Equal(t, time.Minute, cfg.HubCleanupInterval)
	assert.Empty(t, cfg.OTELEndpoint)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"SLEUTH_HOST":          "127.0.0.1",
		"SLEUTH_PORT":          "9090",
		"SLEUTH_STORAGE":       "redis",
		"SLEUTH_REDIS_URL":     "redis://cache:6379/2",
		"SLEUTH_SESSION_TTL":   "2h",
		"SLEUTH_LOG_LEVEL":     "DEBUG",
		"SLEUTH_OTEL_ENDPOINT": "http://collector:4318",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "http://collector:4318", cfg.OTELEndpoint)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown storage", map[string]string{"SLEUTH_STORAGE": "sqlite"}},
		{"port not a number", map[string]string{"SLEUTH_PORT": "http"}},
		{"port out of range", map[string]string{"SLEUTH_PORT": "70000"}},
		{"bad duration", map[string]string{"SLEUTH_SESSION_TTL": "soon"}},
		{"zero deal attempts", map[string]string{"SLEUTH_MAX_DEAL_ATTEMPTS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			assert.Error(t, err)
		})
	}
}
