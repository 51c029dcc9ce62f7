package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"listing-extractor/adapters"
	"listing-extractor/internal/types"
	"listing-extractor/utils"
)

// Extractor runs extraction attempts. Each attempt gets its own session; the
// Extractor itself only holds immutable configuration and is safe for concurrent use.
type Extractor struct {
	config   *types.Config
	logger   types.Logger
	provider types.SessionProvider
	adapter  *adapters.BaseAdapter
}

// NewExtractor creates an extractor backed by a headless browser, or by plain HTTP
// when UseHeadlessBrowser is off
func NewExtractor(config *types.Config, logger types.Logger) *Extractor {
	var provider types.SessionProvider
	if config.UseHeadlessBrowser {
		provider = utils.NewBrowserClient(config, logger)
	} else {
		provider = utils.NewHTTPClient(config, logger)
	}
	return NewExtractorWithProvider(config, logger, provider)
}

// NewExtractorWithProvider creates an extractor that opens sessions from provider
func NewExtractorWithProvider(config *types.Config, logger types.Logger, provider types.SessionProvider) *Extractor {
	return &Extractor{
		config:   config,
		logger:   logger,
		provider: provider,
		adapter:  adapters.NewBaseAdapter(config, logger),
	}
}

// ExtractListing performs one extraction attempt. Exactly one return value is non-nil;
// a non-nil error is always a *types.ExtractionFailure.
func (e *Extractor) ExtractListing(ctx context.Context, pageURL string) (record *types.RawExtraction, err error) {
	attemptID := uuid.NewString()
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = e.fail(pageURL, attemptID, types.UnexpectedFault, fmt.Errorf("panic during extraction: %v", r))
		}
	}()

	if err := validateURL(pageURL); err != nil {
		return nil, e.fail(pageURL, attemptID, types.SessionFailure, err)
	}

	e.logger.Infof("Starting extraction %s for %s", attemptID, pageURL)

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	session, err := e.provider.Acquire(ctx)
	if err != nil {
		return nil, e.fail(pageURL, attemptID, types.SessionFailure, err)
	}
	defer session.Release()

	navigationTimedOut := false
	if err := session.Navigate(pageURL); err != nil {
		if !errors.Is(err, types.ErrNavigationTimeout) {
			return nil, e.fail(pageURL, attemptID, categorize(ctx, types.SessionFailure), err)
		}
		navigationTimedOut = true
	}

	profile := adapters.Lookup(adapters.Classify(pageURL))

	if err := session.Settle(); err != nil {
		return nil, e.fail(pageURL, attemptID, categorize(ctx, types.UnexpectedFault), err)
	}

	html, err := session.HTML()
	if err != nil {
		return nil, e.fail(pageURL, attemptID, categorize(ctx, types.UnexpectedFault), err)
	}

	doc, err := e.adapter.ParseHTML(html)
	if err != nil {
		return nil, e.fail(pageURL, attemptID, types.UnexpectedFault, err)
	}

	record = e.adapter.Extract(doc, pageURL, profile)
	record.AttemptID = attemptID
	record.NavigationTimedOut = navigationTimedOut
	record.ExtractedAt = time.Now().UTC()

	e.logger.Infof("Extraction %s completed in %v: site=%s images=%d", attemptID, time.Since(startTime), record.Site, len(record.Images))
	return record, nil
}

// ExtractBatch extracts every URL with independent sessions, at most
// MaxConcurrentRequests at a time. Results keep the input order.
func (e *Extractor) ExtractBatch(ctx context.Context, urls []string) []types.Result {
	results := make([]types.Result, len(urls))

	limit := e.config.MaxConcurrentRequests
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, pageURL := range urls {
		i, pageURL := i, pageURL
		g.Go(func() error {
			record, err := e.ExtractListing(ctx, pageURL)
			results[i] = types.NewResult(pageURL, record, err)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Close releases resources held by the session provider, if any
func (e *Extractor) Close() {
	if closer, ok := e.provider.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (e *Extractor) fail(pageURL, attemptID string, category types.ErrorCategory, err error) *types.ExtractionFailure {
	failure := types.NewExtractionFailure(pageURL, category, err)
	failure.AttemptID = attemptID
	e.logger.Errorf("Extraction %s for %s failed (%s): %s", attemptID, pageURL, category, failure.Cause)
	return failure
}

// categorize reports an expired attempt deadline as NavigationTimeout
func categorize(ctx context.Context, fallback types.ErrorCategory) types.ErrorCategory {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return types.NavigationTimeout
	}
	return fallback
}

func validateURL(pageURL string) error {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", pageURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", pageURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", pageURL)
	}
	return nil
}
