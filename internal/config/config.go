package config

import (
	"os"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Database
	DatabaseURL string

	// External sources
	CountriesAPIURL     string
	ExchangeRatesAPIURL string
	FetchTimeout        time.Duration

	// Summary artifact
	SummaryImagePath string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                 getEnv("ENV", "development"),
		ServerAddr:          getEnv("SERVER_ADDR", ":3000"),
		DatabaseURL:         getEnv("DATABASE_URL", "postgres://localhost:5432/econatlas?sslmode=disable"),
		CountriesAPIURL:     getEnv("COUNTRIES_API_URL", "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"),
		ExchangeRatesAPIURL: getEnv("EXCHANGE_RATES_API_URL", "https://open.er-api.com/v6/latest/USD"),
		FetchTimeout:        getDuration("FETCH_TIMEOUT", 15*time.Second),
		SummaryImagePath:    getEnv("SUMMARY_IMAGE_PATH", "cache/summary.png"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
