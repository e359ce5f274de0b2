package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Upstream backend-as-a-service. Both values are required by every
	// handler; when either is missing the handlers answer 500 instead of
	// the process refusing to start, so a misconfigured deploy still
	// serves health checks and CORS preflights.
	UpstreamURL     string
	UpstreamAnonKey string

	// Optional error-tracking DSN. Empty disables reporting.
	SentryDSN string

	UpstreamTimeout time.Duration
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")
	environment := GetEnv("ENVIRONMENT", "development")

	upstreamURL := strings.TrimSuffix(GetEnv("SUPABASE_URL", ""), "/")
	upstreamAnonKey := GetEnv("SUPABASE_ANON_KEY", "")

	sentryDSN := GetEnv("SENTRY_DSN", "")

	timeoutSec := GetEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 30)

	return &Config{
		Port:            port,
		Environment:     environment,
		UpstreamURL:     upstreamURL,
		UpstreamAnonKey: upstreamAnonKey,
		SentryDSN:       sentryDSN,
		UpstreamTimeout: time.Duration(timeoutSec) * time.Second,
	}
}

// Configured reports whether the upstream connection settings are present.
func (c *Config) Configured() bool {
	return c.UpstreamURL != "" && c.UpstreamAnonKey != ""
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
