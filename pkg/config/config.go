package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// CryptoCompare API
	CryptoCompareBaseURL string
	CryptoCompareAPIKey  string
	RequestTimeout       time.Duration

	// Cache
	// CacheBackend is "memory" or "ristretto". The ristretto backend buffers
	// and may drop writes, so a set value is not guaranteed readable right
	// away and expiry is not exact; it does not honour the TTL cache contract.
	CacheBackend    string
	CacheDefaultTTL time.Duration
	CacheMoversTTL  time.Duration
	CacheMaxItems   int64

	// Alerts
	AlertCheckSchedule string
	DashboardSymbols   string // comma separated default symbols for price views

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// CryptoCompare defaults
		CryptoCompareBaseURL: getEnvOrDefault("CRYPTOCOMPARE_BASE_URL", "https://min-api.cryptocompare.com/data"),
		CryptoCompareAPIKey:  os.Getenv("CRYPTOCOMPARE_API_KEY"),
		RequestTimeout:       getDurationOrDefault("REQUEST_TIMEOUT", 10*time.Second),

		// Cache defaults
		CacheBackend:    getEnvOrDefault("CACHE_BACKEND", "memory"),
		CacheDefaultTTL: getDurationOrDefault("CACHE_DEFAULT_TTL", 5*time.Minute),
		CacheMoversTTL:  getDurationOrDefault("CACHE_MOVERS_TTL", 5*time.Minute),
		CacheMaxItems:   int64(getIntOrDefault("CACHE_MAX_ITEMS", 1000)),

		// Alert defaults
		AlertCheckSchedule: getEnvOrDefault("ALERT_CHECK_SCHEDULE", "@every 1m"),
		DashboardSymbols:   getEnvOrDefault("DASHBOARD_SYMBOLS", "BTC,ETH,XRP,DOGE,ADA"),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "tracker"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "tracker"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "crypto_tracker"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.CryptoCompareBaseURL == "" {
		return fmt.Errorf("CRYPTOCOMPARE_BASE_URL cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", c.RequestTimeout)
	}

	if c.CacheBackend != "memory" && c.CacheBackend != "ristretto" {
		return fmt.Errorf("CACHE_BACKEND must be 'memory' or 'ristretto', got %q", c.CacheBackend)
	}

	if c.CacheDefaultTTL <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be positive, got %v", c.CacheDefaultTTL)
	}

	if c.CacheMoversTTL <= 0 {
		return fmt.Errorf("CACHE_MOVERS_TTL must be positive, got %v", c.CacheMoversTTL)
	}

	if c.CacheMaxItems <= 0 {
		return fmt.Errorf("CACHE_MAX_ITEMS must be positive, got %d", c.CacheMaxItems)
	}

	if c.AlertCheckSchedule == "" {
		return fmt.Errorf("ALERT_CHECK_SCHEDULE cannot be empty")
	}

	if c.StorageMode != "console" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'console' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

// Symbols returns the uppercased, de-duplicated dashboard symbols.
func (c *Config) Symbols() []string {
	return ParseSymbols(c.DashboardSymbols)
}

// ParseSymbols splits a comma separated symbol list, dropping blanks and
// duplicates and keeping first-seen order.
func ParseSymbols(list string) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, part := range strings.Split(list, ",") {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	return symbols
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
