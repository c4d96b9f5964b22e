// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads oBlog configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/oblog/internal/store"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"your-secret-key-change-in-production",
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Database engine selection. Only the exact value "mysql" selects MySQL.
	DBEngine    string `env:"BLOG_DB_ENGINE" envDefault:"sqlite"`
	DBPath      string `env:"BLOG_DB_PATH" envDefault:"./data/blog.db"`
	DatabaseURL string `env:"BLOG_DATABASE_URL"`
	DBHost      string `env:"BLOG_DB_HOST" envDefault:"localhost"`
	DBPort      int    `env:"BLOG_DB_PORT" envDefault:"3306"`
	DBUser      string `env:"BLOG_DB_USER" envDefault:"root"`
	DBPassword  string `env:"BLOG_DB_PASSWORD"`
	DBName      string `env:"BLOG_DB_NAME" envDefault:"blog_db"`

	ServerHost  string   `env:"BLOG_SERVER_HOST" envDefault:"localhost"`
	ServerPort  int      `env:"BLOG_SERVER_PORT" envDefault:"3001"`
	Env         string   `env:"BLOG_ENV" envDefault:"development"`
	LogLevel    string   `env:"BLOG_LOG_LEVEL" envDefault:"info"`
	JWTSecret   string   `env:"BLOG_JWT_SECRET,required"`
	UploadsDir  string   `env:"BLOG_UPLOADS_DIR" envDefault:"./public/uploads"`
	CORSOrigins []string `env:"BLOG_CORS_ORIGINS" envDefault:"*" envSeparator:","`

	// Cache configuration
	RedisURL    string `env:"BLOG_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix string `env:"BLOG_CACHE_PREFIX" envDefault:"oblog:"` // Redis key prefix
	CacheTTL    int    `env:"BLOG_CACHE_TTL" envDefault:"300"`       // Published post cache TTL in seconds
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// LogLevelValue maps LogLevel to a slog level, defaulting to info.
func (c Config) LogLevelValue() slog.Level {
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

// StoreConfig returns the storage adapter configuration.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Engine:        store.ParseEngine(c.DBEngine),
		SQLitePath:    c.DBPath,
		ConnectionURL: c.DatabaseURL,
		Host:          c.DBHost,
		Port:          c.DBPort,
		User:          c.DBUser,
		Password:      c.DBPassword,
		Database:      c.DBName,
	}
}

// MinJWTSecretLength is the minimum required length for the token signing secret.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("BLOG_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("BLOG_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("BLOG_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("BLOG_SERVER_PORT out of range: %d", cfg.ServerPort)
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
