package types

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	require.NoError(t, config.Validate())
	assert.True(t, config.UseHeadlessBrowser)
	assert.True(t, config.Headless)
	assert.False(t, config.NoSandbox)
	assert.NotEmpty(t, config.UserAgent)
	assert.Less(t, config.NavigationTimeout, config.Timeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("EXTRACT_TIMEOUT", "90s")
	t.Setenv("EXTRACT_NAV_TIMEOUT", "15s")
	t.Setenv("EXTRACT_SETTLE_DELAY", "500ms")
	t.Setenv("EXTRACT_CONCURRENCY", "7")
	t.Setenv("BROWSER_NO_SANDBOX", "true")
	t.Setenv("BROWSER_EXEC_PATH", "/usr/bin/chromium")
	t.Setenv("USE_HEADLESS_BROWSER", "false")

	config := LoadConfig()

	assert.Equal(t, 90*time.Second, config.Timeout)
	assert.Equal(t, 15*time.Second, config.NavigationTimeout)
	assert.Equal(t, 500*time.Millisecond, config.SettleDelay)
	assert.Equal(t, 7, config.MaxConcurrentRequests)
	assert.True(t, config.NoSandbox)
	assert.Equal(t, "/usr/bin/chromium", config.ExecPath)
	assert.False(t, config.UseHeadlessBrowser)
}

func TestLoadConfig_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("EXTRACT_TIMEOUT", "soon")
	t.Setenv("EXTRACT_CONCURRENCY", "many")
	t.Setenv("BROWSER_HEADLESS", "maybe")

	config := LoadConfig()
	defaults := DefaultConfig()

	assert.Equal(t, defaults.Timeout, config.Timeout)
	assert.Equal(t, defaults.MaxConcurrentRequests, config.MaxConcurrentRequests)
	assert.Equal(t, defaults.Headless, config.Headless)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout must be positive"},
		{"zero nav timeout", func(c *Config) { c.NavigationTimeout = 0 }, "navigation timeout must be positive"},
		{"nav exceeds attempt", func(c *Config) { c.NavigationTimeout = 2 * c.Timeout }, "exceeds attempt timeout"},
		{"negative settle", func(c *Config) { c.SettleDelay = -time.Second }, "settle delay"},
		{"no concurrency", func(c *Config) { c.MaxConcurrentRequests = 0 }, "at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExtractionFailure_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("launch chrome: %w", context.DeadlineExceeded)
	failure := NewExtractionFailure("https://example.com", SessionFailure, cause)

	assert.Equal(t, SessionFailure, failure.Category)
	assert.Equal(t, cause.Error(), failure.Cause)
	assert.True(t, errors.Is(failure, context.DeadlineExceeded))
	assert.Contains(t, failure.Error(), "SessionFailure")
}

func TestExtractionFailure_NilCauseStillHasText(t *testing.T) {
	failure := NewExtractionFailure("https://example.com", UnexpectedFault, nil)

	assert.NotEmpty(t, failure.Cause)
}

func TestNewResult_ExactlyOneSide(t *testing.T) {
	listing := &RawExtraction{URL: "https://example.com", Site: SiteGeneric, PriceText: DefaultPriceText}
	ok := NewResult("https://example.com", listing, nil)
	assert.True(t, ok.OK())
	assert.Nil(t, ok.Failure)

	failure := NewExtractionFailure("https://example.com", SessionFailure, errors.New("boom"))
	failed := NewResult("https://example.com", nil, failure)
	assert.False(t, failed.OK())
	require.NotNil(t, failed.Failure)
	assert.Same(t, failure, failed.Failure)

	plain := NewResult("https://example.com", nil, errors.New("raw error"))
	require.NotNil(t, plain.Failure)
	assert.Equal(t, UnexpectedFault, plain.Failure.Category)
	assert.Nil(t, plain.Listing)

	neither := NewResult("https://example.com", nil, nil)
	require.NotNil(t, neither.Failure)
	assert.Nil(t, neither.Listing)
}
