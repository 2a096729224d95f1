// Package config provides validation utilities for configuration values.
package config

import (
	"fmt"
	"strings"
)

// validateConfig performs validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	if config.API.BaseURL == "" {
		validationErrors = append(validationErrors, "api.base_url cannot be empty")
	}
	if config.API.TimeoutSeconds <= 0 {
		validationErrors = append(validationErrors, "api.timeout_seconds must be positive")
	}

	if config.Cache.MaxEntries <= 0 {
		validationErrors = append(validationErrors, "cache.max_entries must be positive")
	}
	if config.Cache.TTLHours <= 0 {
		validationErrors = append(validationErrors, "cache.ttl_hours must be positive")
	}
	if config.Cache.SweepIntervalMinutes <= 0 {
		validationErrors = append(validationErrors, "cache.sweep_interval_minutes must be positive")
	}
	if config.Cache.FlushIntervalMinutes <= 0 {
		validationErrors = append(validationErrors, "cache.flush_interval_minutes must be positive")
	}

	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
		// Valid
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}

	switch config.Logging.Format {
	case "console", "json":
		// Valid
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be one of: console, json (got: %s)", config.Logging.Format))
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}
