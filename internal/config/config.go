package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"spendwise/internal/budget"
	"spendwise/internal/format"
	applog "spendwise/internal/log"
)

type Config struct {
	// Data
	DataDir string
	OwnerID string

	// Display
	Currency    string
	Placement   string
	NumberStyle string
	MinFraction int
	MaxFraction int
	DatePattern string

	// Conversion rates into Currency, e.g. "EUR=1.08,GBP=1.27"
	Rates string

	// Report cache
	CacheSize int
	CacheTTL  time.Duration

	// Bank connection simulation
	BankConnectDelay time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		DataDir: getEnv("BUDGET_DATA_DIR", "./data"),
		OwnerID: getEnv("BUDGET_OWNER_ID", "local"),

		Currency:    getEnv("BUDGET_CURRENCY", "USD"),
		Placement:   getEnv("BUDGET_PLACEMENT", string(format.Before)),
		NumberStyle: getEnv("BUDGET_NUMBER_STYLE", string(format.CommaDot)),
		MinFraction: getEnvInt("BUDGET_MIN_FRACTION", format.DefaultFractionDigits),
		MaxFraction: getEnvInt("BUDGET_MAX_FRACTION", format.DefaultFractionDigits),
		DatePattern: getEnv("BUDGET_DATE_PATTERN", string(format.ISODate)),

		Rates: getEnv("BUDGET_RATES", ""),

		CacheSize: getEnvInt("BUDGET_CACHE_SIZE", 32),
		CacheTTL:  getEnvDuration("BUDGET_CACHE_TTL", 10*time.Minute),

		BankConnectDelay: getEnvDuration("BANK_CONNECT_DELAY", 1500*time.Millisecond),

		LogLevel:  getEnv("BUDGET_LOG_LEVEL", "info"),
		LogFormat: getEnv("BUDGET_LOG_FORMAT", "text"),
	}
}

// CurrencyFormat builds the display descriptor from the config.
func (c *Config) CurrencyFormat() (format.CurrencyFormat, error) {
	return format.NewCurrencyFormat(format.Options{
		Currency:    c.Currency,
		Placement:   format.Placement(c.Placement),
		Style:       format.NumberStyle(c.NumberStyle),
		MinFraction: format.Digits(c.MinFraction),
		MaxFraction: format.Digits(c.MaxFraction),
		DatePattern: c.DatePattern,
	})
}

// RateTable parses the configured conversion rates.
func (c *Config) RateTable() (budget.RateTable, error) {
	return budget.ParseRates(c.Rates)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.DataDir) == "" {
		errors = append(errors, "data directory cannot be empty")
	}

	if _, err := c.CurrencyFormat(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid display format: %v", err))
	}

	if _, err := c.RateTable(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid rates '%s': %v", c.Rates, err))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	} else if c.CacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at most 10000", c.CacheSize))
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache ttl %v: must not be negative", c.CacheTTL))
	}

	if c.BankConnectDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid bank connect delay %v: must not be negative", c.BankConnectDelay))
	} else if c.BankConnectDelay > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid bank connect delay %v: must be at most 1 minute", c.BankConnectDelay))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
