package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"listing-extractor/internal/listing"
	"listing-extractor/internal/types"
)

func TestCollectURLs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "urls.txt")
	require.NoError(t, os.WriteFile(input, []byte("# listings\nhttps://jp.mercari.com/item/m1\n\n  https://www.amazon.co.jp/dp/B1  \n"), 0644))

	urls, err := collectURLs([]string{" https://example.com/a ", ""}, input)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/a",
		"https://jp.mercari.com/item/m1",
		"https://www.amazon.co.jp/dp/B1",
	}, urls)

	_, err = collectURLs(nil, filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	flags := &cliFlags{}
	cmd := newRootCmd(flags)
	require.NoError(t, cmd.ParseFlags([]string{"--timeout", "90s", "--http-only"}))

	config := types.DefaultConfig()
	config.MaxConcurrentRequests = 7 // as if set from the environment
	applyFlags(cmd, flags, config)

	assert.Equal(t, 90*time.Second, config.Timeout)
	assert.Equal(t, 7, config.MaxConcurrentRequests)
	assert.False(t, config.UseHeadlessBrowser)
	assert.Equal(t, listing.DefaultPricing(), flags.pricing)
}
