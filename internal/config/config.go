// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata" // zone database for minimal containers

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"SITE_DB_PATH" envDefault:"./data/site.db"`
	SessionSecret string `env:"SITE_SESSION_SECRET,required"`
	ServerHost    string `env:"SITE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SITE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SITE_ENV" envDefault:"development"`
	LogLevel      string `env:"SITE_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"SITE_LOG_FORMAT" envDefault:"text"`
	ProfilePath   string `env:"SITE_PROFILE_PATH"` // Optional TOML file replacing the embedded site profile
	Timezone      string `env:"SITE_TIMEZONE" envDefault:"America/Sao_Paulo"`

	// DemoMode wipes and reseeds the database once a day, checked at startup.
	DemoMode bool `env:"SITE_DEMO_MODE" envDefault:"false"`

	// Cache configuration
	RedisURL     string `env:"SITE_REDIS_URL"`                        // Optional Redis URL for distributed caching
	CachePrefix  string `env:"SITE_CACHE_PREFIX" envDefault:"site:"`  // Redis key prefix
	CacheTTL     int    `env:"SITE_CACHE_TTL" envDefault:"300"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"SITE_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries

	// AdminSetupToken is the shared secret for role elevation. Empty disables elevation.
	AdminSetupToken string `env:"ADMIN_SETUP_TOKEN"`

	location *time.Location
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// ElevationEnabled reports whether the admin setup token is configured.
func (c Config) ElevationEnabled() bool {
	return c.AdminSetupToken != ""
}

// Location returns the timezone used to decide what "today" is.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SITE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SITE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("SITE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("SITE_LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("SITE_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	if !cfg.ElevationEnabled() {
		slog.Info("ADMIN_SETUP_TOKEN not set; role elevation is disabled")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
