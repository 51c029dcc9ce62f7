package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"listing-extractor/internal/types"
)

// HTTPClient fetches raw HTML without executing JavaScript. It serves pages whose
// markup is complete in the server response and environments with no browser installed.
type HTTPClient struct {
	client *http.Client
	config *types.Config
	logger types.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *types.Config, logger types.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: config.NavigationTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}
}

// Get performs a single GET request. Failures are returned as-is, never retried.
func (h *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.8,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	h.logger.Debugf("Making request to %s", url)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	h.logger.Debugf("Successfully retrieved %d bytes from %s", len(body), url)
	return body, nil
}

// Acquire opens a session bound to ctx. No process is started.
func (h *HTTPClient) Acquire(ctx context.Context) (types.PageSession, error) {
	return &httpSession{ctx: ctx, client: h}, nil
}

// Close releases idle connections
func (h *HTTPClient) Close() {
	h.client.CloseIdleConnections()
}

// httpSession adapts one GET request to the PageSession contract
type httpSession struct {
	ctx    context.Context
	client *HTTPClient
	body   []byte
}

func (s *httpSession) Navigate(url string) error {
	body, err := s.client.Get(s.ctx, url)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	s.body = body
	return nil
}

// Settle is a no-op: a static response has nothing left to load
func (s *httpSession) Settle() error {
	return nil
}

func (s *httpSession) HTML() (string, error) {
	if s.body == nil {
		return "", fmt.Errorf("no page loaded")
	}
	return string(s.body), nil
}

func (s *httpSession) Release() {
	s.body = nil
}
