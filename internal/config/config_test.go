package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envFrom(map[string]string{
		"JWT_SECRET": "test-secret-at-least-16-chars!!",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/directory.db", cfg.DBPath)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, time.UTC, cfg.DisplayLocation)
	assert.Equal(t, "http://localhost:8080/auth/github/callback", cfg.GitHubCallbackURL)
	assert.False(t, cfg.GitHubEnabled())
}

func TestLoad_MissingSecret(t *testing.T) {
	_, err := load(envFrom(map[string]string{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(envFrom(map[string]string{
		"JWT_SECRET":           "test-secret-at-least-16-chars!!",
		"PORT":                 "9090",
		"DATABASE_URL":         "postgres://localhost/directory",
		"REDIS_ADDR":           "localhost:6379",
		"REDIS_DB":             "2",
		"SESSION_TTL":          "30m",
		"COOKIE_SECURE":        "true",
		"LOG_LEVEL":            "debug",
		"DISPLAY_TIMEZONE":     "America/Chicago",
		"GITHUB_CLIENT_ID":     "id",
		"GITHUB_CLIENT_SECRET": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/directory", cfg.DatabaseURL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "America/Chicago", cfg.DisplayLocation.String())
	assert.Equal(t, "http://localhost:9090/auth/github/callback", cfg.GitHubCallbackURL)
	assert.True(t, cfg.GitHubEnabled())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port not a number", "PORT", "eighty"},
		{"port out of range", "PORT", "70000"},
		{"bad duration", "SESSION_TTL", "forever"},
		{"negative duration", "CACHE_TTL", "-1m"},
		{"bad bool", "COOKIE_SECURE", "sure"},
		{"bad level", "LOG_LEVEL", "chatty"},
		{"short secret", "JWT_SECRET", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{"JWT_SECRET": "test-secret-at-least-16-chars!!"}
			env[tt.key] = tt.val
			_, err := load(envFrom(env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_FromProcessEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "8181")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
}
