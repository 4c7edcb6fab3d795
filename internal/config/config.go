// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rayclock/rayclock/internal/store"
)

var ErrMissingSecret = errors.New("RAYCLOCK_JWT_SECRET is not set")

// Config holds application configuration. Data paths default to the
// user data directory; integrations stay disabled until their
// credentials are present.
type Config struct {
	DataDir string
	DBPath  string

	JWTSecret string
	TokenTTL  time.Duration

	CalDAVUsername string
	CalDAVPassword string
}

// FromEnv builds a Config from RAYCLOCK_* environment variables,
// falling back to defaults.
func FromEnv() *Config {
	dataDir := getEnv("RAYCLOCK_DATA_DIR", store.DefaultDataDir())
	return &Config{
		DataDir:        dataDir,
		DBPath:         getEnv("RAYCLOCK_DB_PATH", filepath.Join(dataDir, "rayclock.db")),
		JWTSecret:      getEnv("RAYCLOCK_JWT_SECRET", ""),
		TokenTTL:       getEnvDuration("RAYCLOCK_TOKEN_TTL", 30*24*time.Hour),
		CalDAVUsername: getEnv("RAYCLOCK_CALDAV_USERNAME", ""),
		CalDAVPassword: getEnv("RAYCLOCK_CALDAV_PASSWORD", ""),
	}
}

// CalDAVConfigured reports whether calendar credentials are present.
func (c *Config) CalDAVConfigured() bool {
	return c.CalDAVUsername != "" && c.CalDAVPassword != ""
}

// RequireSecret fails when no signing secret is configured. Account
// features are gated on it.
func (c *Config) RequireSecret() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if hours, err := strconv.Atoi(v); err == nil {
		return time.Duration(hours) * time.Hour
	}
	return fallback
}
