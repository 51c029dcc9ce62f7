package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"listing-extractor/internal/types"
)

// BrowserClient launches one headless browser per extraction attempt
type BrowserClient struct {
	config *types.Config
	logger types.Logger
}

// NewBrowserClient creates a new browser client
func NewBrowserClient(config *types.Config, logger types.Logger) *BrowserClient {
	return &BrowserClient{
		config: config,
		logger: logger,
	}
}

// BrowserSession owns one browser process and its single tab
type BrowserSession struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
	config      *types.Config
	logger      types.Logger
	releaseOnce sync.Once
}

// allocatorOptions builds the Chrome command line for the configured environment
func (b *BrowserClient) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(b.config.UserAgent),
	)

	// Locked-down containers usually forbid the setuid sandbox and have a tiny /dev/shm
	if b.config.NoSandbox {
		opts = append(opts,
			chromedp.NoSandbox,
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}

	if b.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.config.ExecPath))
	}

	return opts
}

// Acquire starts a browser process and opens a tab. On error nothing is left running.
func (b *BrowserClient) Acquire(ctx context.Context) (types.PageSession, error) {
	startTime := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(b.logger.Debugf),
		chromedp.WithDebugf(func(string, ...interface{}) {}),
		chromedp.WithErrorf(b.logger.Debugf),
	)

	// The first Run on the tab context launches the process
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b.logger.Debugf("Browser launched in %v", time.Since(startTime))
	return &BrowserSession{
		ctx:         tabCtx,
		cancelAlloc: cancelAlloc,
		cancelTab:   cancelTab,
		config:      b.config,
		logger:      b.logger,
	}, nil
}

// Navigate loads url and waits for the document body to exist.
// Hitting the navigation timeout yields a wrapped types.ErrNavigationTimeout; the page keeps
// whatever it rendered so far.
func (s *BrowserSession) Navigate(url string) error {
	navCtx, cancel := context.WithTimeout(s.ctx, s.config.NavigationTimeout)
	defer cancel()

	startTime := time.Now()
	err := chromedp.Run(navCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, _, errorText, err := page.Navigate(url).Do(ctx)
			if err != nil {
				return err
			}
			if errorText != "" {
				return fmt.Errorf("page load error %s", errorText)
			}
			return nil
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)

	if err != nil {
		err = classifyNavigationError(url, err, s.ctx.Err())
		if errors.Is(err, types.ErrNavigationTimeout) {
			s.logger.Warnf("Page %s not DOM-ready after %v, continuing with partial render", url, s.config.NavigationTimeout)
		}
		return err
	}

	s.logger.Debugf("Navigated to %s in %v", url, time.Since(startTime))
	return nil
}

// classifyNavigationError maps a failed navigation run to the session contract.
// Only the navigation deadline is soft: when the session context itself is done
// (attempt deadline or release) the failure is hard.
func classifyNavigationError(url string, err, sessionErr error) error {
	if errors.Is(err, context.DeadlineExceeded) && sessionErr == nil {
		return fmt.Errorf("%s: %w", url, types.ErrNavigationTimeout)
	}
	return fmt.Errorf("failed to navigate to %s: %w", url, err)
}

// Settle waits the configured settle delay so lazy-loaded images reach the DOM
func (s *BrowserSession) Settle() error {
	if s.config.SettleDelay <= 0 {
		return nil
	}
	if err := chromedp.Run(s.ctx, chromedp.Sleep(s.config.SettleDelay)); err != nil {
		return fmt.Errorf("settle wait interrupted: %w", err)
	}
	return nil
}

// HTML returns the rendered document
func (s *BrowserSession) HTML() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// Release closes the browser and waits for the process to exit
func (s *BrowserSession) Release() {
	s.releaseOnce.Do(func() {
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Debugf("Graceful browser close failed: %v", err)
		}
		s.cancelTab()
		s.cancelAlloc()
		s.logger.Debug("Browser session released")
	})
}
