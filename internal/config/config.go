// Package config loads runtime configuration from the environment. A
// .env file is honored in development; real deployments set the
// variables directly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort       = "1313"
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Config holds everything the server needs to start.
type Config struct {
	Env  string
	Port string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string

	AllowedOrigins  []string
	LogLevel        string
	AuditLogEnabled bool
}

// Load reads the environment and validates the result. The two token
// secrets are the only hard requirements; everything else has a default
// suited to local development.
func Load() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", defaultPort),

		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "shopcore"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AuditLogEnabled: getEnv("AUDIT_LOG_ENABLED", "false") == "true",
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_TTL", defaultRefreshTTL); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening
// (Secure cookies, JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.AccessTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
