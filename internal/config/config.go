package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             string
	DatabaseURL      string
	StorePath        string // msgpack file store, used when DatabaseURL is empty
	LogLevel         string
	SessionTTL       time.Duration
	SnapshotInterval time.Duration
}

func Load() Config {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		StorePath:        os.Getenv("STORE_PATH"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SessionTTL:       time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		SnapshotInterval: time.Duration(getEnvInt("SNAPSHOT_INTERVAL_MS", 100)) * time.Millisecond,
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt falls back on unparsable and non-positive values.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}
