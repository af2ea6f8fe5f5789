package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL                string
	HTTPPort                   string
	AdminAPIKey                string
	LegislationYear            int
	LegislationFile            string
	LegislationCacheTTL        time.Duration
	LegislationRefreshInterval time.Duration
	ScenarioWorkerInterval     time.Duration
	GoogleSheetsID             string
	GoogleCredentialsJSON      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DatabaseURL:                envOrDefaultWarn("DATABASE_URL", ""),
		HTTPPort:                   envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:                envOrDefault("ADMIN_API_KEY", ""),
		LegislationYear:            envOrDefaultInt("LEGISLATION_YEAR", 0),
		LegislationFile:            envOrDefault("LEGISLATION_FILE", ""),
		LegislationCacheTTL:        envOrDefaultDuration("LEGISLATION_CACHE_TTL", 10*time.Minute),
		LegislationRefreshInterval: envOrDefaultDuration("LEGISLATION_REFRESH_INTERVAL", 1*time.Hour),
		ScenarioWorkerInterval:     envOrDefaultDuration("SCENARIO_WORKER_INTERVAL", 24*time.Hour),
		GoogleSheetsID:             envOrDefault("GOOGLE_SHEETS_ID", ""),
		GoogleCredentialsJSON:      envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
}

// SheetsEnabled reports whether scenario results should be published to Google Sheets.
func (c Config) SheetsEnabled() bool {
	return c.GoogleSheetsID != "" && c.GoogleCredentialsJSON != ""
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
