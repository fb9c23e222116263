// Package config assembles server configuration from the environment,
// falling back to defaults for unset values. Flags override env at the
// CLI layer.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/thanida/engbee/internal/llm"
)

// Config holds everything the serve command needs.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DBPath is the SQLite database file. Empty selects the XDG default.
	DBPath string

	// LogMode selects the log encoder: "dev" or "prod".
	LogMode string

	// DailyLimit is the per-identity lesson-generation ceiling per UTC day.
	DailyLimit int

	// FallbackEnabled substitutes the static fallback lesson when
	// generation is exhausted, instead of returning 502. Degraded
	// responses are always logged.
	FallbackEnabled bool

	// LLM is the generator provider configuration.
	LLM llm.Config
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Addr:       ":8080",
		LogMode:    "dev",
		DailyLimit: 200,
		LLM:        llm.DefaultConfig(),
	}
}

// FromEnv builds a Config from ENGBEE_* environment variables.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("ENGBEE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ENGBEE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ENGBEE_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("ENGBEE_DAILY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DailyLimit = n
		}
	}
	if v := os.Getenv("ENGBEE_FALLBACK_LESSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.FallbackEnabled = b
		}
	}

	cfg.LLM = llm.ConfigFromEnv()
	return cfg
}

// Validate checks the configuration for obvious misconfiguration.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is empty")
	}
	if c.DailyLimit <= 0 {
		return fmt.Errorf("daily limit must be positive, got %d", c.DailyLimit)
	}
	return c.LLM.Validate()
}
