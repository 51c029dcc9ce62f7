package types

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadConfig returns DefaultConfig with environment overrides applied.
// Unparseable values are ignored and the default is kept.
func LoadConfig() *Config {
	config := DefaultConfig()

	config.Timeout = getDurationOrDefault("EXTRACT_TIMEOUT", config.Timeout)
	config.NavigationTimeout = getDurationOrDefault("EXTRACT_NAV_TIMEOUT", config.NavigationTimeout)
	config.SettleDelay = getDurationOrDefault("EXTRACT_SETTLE_DELAY", config.SettleDelay)
	config.MaxConcurrentRequests = getIntOrDefault("EXTRACT_CONCURRENCY", config.MaxConcurrentRequests)
	config.UseHeadlessBrowser = getBoolOrDefault("USE_HEADLESS_BROWSER", config.UseHeadlessBrowser)
	config.Headless = getBoolOrDefault("BROWSER_HEADLESS", config.Headless)
	config.NoSandbox = getBoolOrDefault("BROWSER_NO_SANDBOX", config.NoSandbox)
	config.ExecPath = getEnvOrDefault("BROWSER_EXEC_PATH", config.ExecPath)
	config.UserAgent = getEnvOrDefault("BROWSER_USER_AGENT", config.UserAgent)

	return config
}

// Validate checks that the timing and concurrency settings are usable
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive, got %v", c.NavigationTimeout)
	}
	if c.NavigationTimeout > c.Timeout {
		return fmt.Errorf("navigation timeout %v exceeds attempt timeout %v", c.NavigationTimeout, c.Timeout)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative, got %v", c.SettleDelay)
	}
	if c.MaxConcurrentRequests < 1 {
		return fmt.Errorf("max concurrent requests must be at least 1, got %d", c.MaxConcurrentRequests)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
