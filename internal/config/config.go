// Package config centralizes environment-driven settings and the shared
// structured logger.
package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config carries the runtime settings read from the environment. Defaults
// suit local development; production deployments override via env vars or a
// .env file loaded by the entry point.
type Config struct {
	DatabaseURL             string
	ServerPort              string
	AllowedOrigins          string
	DefaultPhoneRegion      string
	DuplicateIncludeTrashed bool
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		ServerPort:              envOr("SERVER_PORT", "8080"),
		AllowedOrigins:          os.Getenv("ALLOWED_ORIGINS"),
		DefaultPhoneRegion:      envOr("DEFAULT_PHONE_REGION", "MA"),
		DuplicateIncludeTrashed: envBool("DUPLICATE_INCLUDE_TRASHED"),
	}
}

// NewLogger builds a JSON-formatted logrus logger. LOG_LEVEL accepts any of
// logrus's level names; an unknown or empty value falls back to info.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
