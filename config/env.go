package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv reads .env into the process environment. A missing file is not fatal:
// deployments may inject variables directly.
// It runs before InitLogger so the file can configure logging; the caller logs
// the returned error once the logger is up.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load %s: %w", strings.Join(paths, ", "), err)
	}
	return nil
}

// GetEnv returns the trimmed value of key, or "" when unset.
func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvDefault(key, fallback string) string {
	if v := GetEnv(key); v != "" {
		return v
	}
	return fallback
}

func GetEnvBool(key string, fallback bool) bool {
	v := GetEnv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		Logger.Warn("Invalid boolean env value, using default",
			zap.String("key", key),
			zap.String("value", v),
			zap.Bool("default", fallback))
		return fallback
	}
	return b
}

func GetEnvInt(key string, fallback int) int {
	v := GetEnv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		Logger.Warn("Invalid integer env value, using default",
			zap.String("key", key),
			zap.String("value", v),
			zap.Int("default", fallback))
		return fallback
	}
	return n
}

func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		Logger.Warn("Invalid duration env value, using default",
			zap.String("key", key),
			zap.String("value", v),
			zap.Duration("default", fallback))
		return fallback
	}
	return d
}

func GetEnvFloat(key string, fallback float64) float64 {
	v := GetEnv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		Logger.Warn("Invalid float env value, using default",
			zap.String("key", key),
			zap.String("value", v),
			zap.Float64("default", fallback))
		return fallback
	}
	return f
}
