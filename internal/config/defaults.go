// Package config provides default configuration values for assetbridge.
package config

// Default configuration constants
const (
	// API defaults
	defaultAPITimeoutSec = 10 // seconds

	// Cache defaults
	defaultCacheMaxEntries   = 1500 // entries
	defaultCacheTTLHours     = 72   // 3 days
	defaultSweepIntervalMin  = 5    // minutes
	defaultFlushIntervalMin  = 10   // minutes
)

// DefaultConfig returns the default configuration values for assetbridge.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: defaultAPITimeoutSec,
		},
		Cache: CacheConfig{
			MaxEntries:           defaultCacheMaxEntries,
			TTLHours:             defaultCacheTTLHours,
			SweepIntervalMinutes: defaultSweepIntervalMin,
			FlushIntervalMinutes: defaultFlushIntervalMin,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
