package types

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SiteName identifies one of the supported source sites
type SiteName string

const (
	SiteMercari      SiteName = "Mercari"
	SiteYahooAuction SiteName = "YahooAuction"
	SiteRakuten      SiteName = "Rakuten"
	SiteAmazon       SiteName = "Amazon"
	SiteGeneric      SiteName = "Generic"
)

// DefaultPriceText is the price reported when no price rule matched
const DefaultPriceText = "0"

// RawExtraction is the untranslated product record produced by one extraction attempt.
// A record returned to a caller always has every field at least defaulted.
type RawExtraction struct {
	URL                string    `json:"url"`
	Site               SiteName  `json:"site"`
	Title              string    `json:"title"`
	PriceText          string    `json:"price_text"`
	Description        string    `json:"description"`
	Images             []string  `json:"images"`
	NavigationTimedOut bool      `json:"navigation_timed_out,omitempty"`
	AttemptID          string    `json:"attempt_id"`
	ExtractedAt        time.Time `json:"extracted_at"`
}

// ErrorCategory classifies an ExtractionFailure
type ErrorCategory string

const (
	// NavigationTimeout means the overall attempt deadline expired before the page could be read.
	NavigationTimeout ErrorCategory = "NavigationTimeout"
	// SessionFailure means the browser could not be launched or could not navigate at all.
	SessionFailure ErrorCategory = "SessionFailure"
	// UnexpectedFault covers any other fault raised during the attempt.
	UnexpectedFault ErrorCategory = "UnexpectedFault"
)

// ErrNavigationTimeout is returned by a PageSession when the page did not become
// DOM-ready within the navigation timeout. Callers may keep reading the page.
var ErrNavigationTimeout = errors.New("navigation did not reach DOM-ready before timeout")

// ExtractionFailure is the failure side of an extraction attempt
type ExtractionFailure struct {
	URL       string        `json:"url"`
	Category  ErrorCategory `json:"category"`
	Cause     string        `json:"cause"`
	AttemptID string        `json:"attempt_id"`

	err error
}

// NewExtractionFailure wraps err into a failure of the given category
func NewExtractionFailure(url string, category ErrorCategory, err error) *ExtractionFailure {
	cause := "unknown error"
	if err != nil && err.Error() != "" {
		cause = err.Error()
	}
	return &ExtractionFailure{
		URL:      url,
		Category: category,
		Cause:    cause,
		err:      err,
	}
}

func (f *ExtractionFailure) Error() string {
	return fmt.Sprintf("%s: %s", f.Category, f.Cause)
}

func (f *ExtractionFailure) Unwrap() error {
	return f.err
}

// Result pairs an input URL with the outcome of its extraction attempt.
// Exactly one of Listing and Failure is set.
type Result struct {
	URL     string             `json:"url"`
	Listing *RawExtraction     `json:"listing,omitempty"`
	Failure *ExtractionFailure `json:"failure,omitempty"`
}

// NewResult builds a Result from the return values of an extraction attempt
func NewResult(url string, listing *RawExtraction, err error) Result {
	if err == nil && listing != nil {
		return Result{URL: url, Listing: listing}
	}

	var failure *ExtractionFailure
	if !errors.As(err, &failure) {
		failure = NewExtractionFailure(url, UnexpectedFault, err)
	}
	return Result{URL: url, Failure: failure}
}

// OK reports whether the attempt produced a listing
func (r Result) OK() bool {
	return r.Listing != nil
}

// Config holds the configuration for the extractor
type Config struct {
	Timeout               time.Duration // bound on a whole extraction attempt
	NavigationTimeout     time.Duration // soft bound on reaching DOM-ready
	SettleDelay           time.Duration // wait for lazy-loaded images after navigation
	MaxConcurrentRequests int
	UseHeadlessBrowser    bool
	Headless              bool
	NoSandbox             bool
	ExecPath              string
	UserAgent             string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:               60 * time.Second,
		NavigationTimeout:     30 * time.Second,
		SettleDelay:           2 * time.Second,
		MaxConcurrentRequests: 3,
		UseHeadlessBrowser:    true,
		Headless:              true,
		NoSandbox:             false,
		UserAgent:             "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// PageSession is one loaded browsing context, valid for a single extraction attempt
type PageSession interface {
	// Navigate loads url. A wrapped ErrNavigationTimeout is not fatal.
	Navigate(url string) error

	// Settle waits once for lazy content to render
	Settle() error

	// HTML returns the current DOM serialized as HTML
	HTML() (string, error)

	// Release terminates everything the session owns. Safe to call more than once.
	Release()
}

// SessionProvider opens page sessions
type SessionProvider interface {
	Acquire(ctx context.Context) (PageSession, error)
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
