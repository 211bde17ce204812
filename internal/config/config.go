// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every environment-driven setting
type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	RedisURL    string
	CORSOrigins string

	ClimatiqAPIKey    string
	ClimatiqBaseURL   string
	ClimatiqTimeout   time.Duration
	ClimatiqRateLimit float64
	FactorCacheTTL    time.Duration

	// DotEnvLoaded reports whether Load found a .env file
	DotEnvLoaded bool
}

// Load reads .env when present and builds the configuration.
// It does not log the .env outcome; callers do once logging is set up.
func Load() *Config {
	loaded := godotenv.Load() == nil
	cfg := FromEnv()
	cfg.DotEnvLoaded = loaded
	return cfg
}

// FromEnv builds the configuration from the process environment only
func FromEnv() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("GO_ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		CORSOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),

		// Both names have been used for the Climatiq key
		ClimatiqAPIKey:    getEnv("CLIMATIQ_KEY", getEnv("CLIMATIQ_API_KEY", "")),
		ClimatiqBaseURL:   getEnv("CLIMATIQ_BASE_URL", "https://beta3.api.climatiq.org"),
		ClimatiqTimeout:   getDuration("CLIMATIQ_TIMEOUT", 10*time.Second),
		ClimatiqRateLimit: getFloat("CLIMATIQ_RATE_LIMIT", 0),
		FactorCacheTTL:    getDuration("FACTOR_CACHE_TTL", 24*time.Hour),
	}
}

// HasClimatiqCredential reports whether external estimates are possible.
// Without it every request is served by the fallback model.
func (c *Config) HasClimatiqCredential() bool {
	return c.ClimatiqAPIKey != ""
}

// IsDevelopment reports whether GO_ENV selects development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return defaultValue
	}
	return d
}

func getFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid number, using default")
		return defaultValue
	}
	return f
}
