// Package config loads the server configuration from environment variables.
//
// Every setting has a default except JWT_SECRET, which signs session cookies
// and has no safe default. Missing required variables are reported together
// in one error so a misconfigured deploy fails once, not once per variable.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything cmd/server needs to build the server.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	LogLevel    slog.Level

	// DatabaseURL selects the Postgres store when set; otherwise DBPath is
	// opened with SQLite.
	DBPath      string
	DatabaseURL string

	// RedisAddr enables the profile cache when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	// DisplayLocation is the zone dates are rendered in.
	DisplayLocation *time.Location
}

// GitHubEnabled reports whether GitHub sign-in is configured.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// MinSecretLength mirrors the check in auth.NewTokenService.
const MinSecretLength = 16

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	var missing []string
	var problems []string

	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s=%q is not an integer", key, raw))
			return def
		}
		return n
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			problems = append(problems, fmt.Sprintf("%s=%q is not a positive duration", key, raw))
			return def
		}
		return d
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s=%q is not a boolean", key, raw))
			return def
		}
		return b
	}

	cfg := Config{
		Port:        optInt("PORT", 8080),
		TemplateDir: opt("TEMPLATE_DIR", "web/templates"),
		StaticDir:   opt("STATIC_DIR", "web/static"),

		DBPath:      opt("DB_PATH", "data/directory.db"),
		DatabaseURL: opt("DATABASE_URL", ""),

		RedisAddr:     opt("REDIS_ADDR", ""),
		RedisPassword: opt("REDIS_PASSWORD", ""),
		RedisDB:       optInt("REDIS_DB", 0),
		CacheTTL:      optDuration("CACHE_TTL", 5*time.Minute),

		JWTSecret:    req("JWT_SECRET"),
		SessionTTL:   optDuration("SESSION_TTL", 12*time.Hour),
		CookieSecure: optBool("COOKIE_SECURE", false),

		GitHubClientID:     opt("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: opt("GITHUB_CLIENT_SECRET", ""),
	}
	cfg.GitHubCallbackURL = opt("GITHUB_CALLBACK_URL",
		fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port))

	if err := cfg.LogLevel.UnmarshalText([]byte(opt("LOG_LEVEL", "info"))); err != nil {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL: %v", err))
	}

	tz := opt("DISPLAY_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		problems = append(problems, fmt.Sprintf("DISPLAY_TIMEZONE=%q: %v", tz, err))
		loc = time.UTC
	}
	cfg.DisplayLocation = loc

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(cfg.JWTSecret) < MinSecretLength {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d characters", MinSecretLength))
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT=%d is out of range", cfg.Port))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}
