package browser

import (
	"context"
	"fmt"
)

// PageHandle is the page-level surface a driver exposes. Every method is
// a single delegation to the underlying automation library; no state
// beyond the live handle lives here.
type PageHandle interface {
	// Navigate loads a URL and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// Click waits for the selector to be visible, then clicks it.
	Click(ctx context.Context, selector string) error

	// Fill waits for the selector, clears the field, and types text.
	Fill(ctx context.Context, selector, text string) error

	// Press sends a keyboard key (PageDown, Home, Enter, ...).
	Press(ctx context.Context, key string) error

	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// URL returns the page's current URL.
	URL() string

	// Title returns the page's current title.
	Title() string

	// Close releases the page and its context.
	Close() error
}

// Driver launches browser handle bundles for sessions.
type Driver interface {
	Name() string

	// NewPage launches a fresh browser context and page.
	NewPage(ctx context.Context) (PageHandle, error)

	// Close shuts down the driver and everything it launched.
	Close() error
}

// NewDriver constructs the configured driver.
func NewDriver(cfg Config) (Driver, error) {
	switch cfg.Driver {
	case DriverPlaywright:
		return newPlaywrightDriver(cfg)
	case DriverCDP:
		return newCDPDriver(cfg)
	default:
		return nil, fmt.Errorf("unknown browser driver: %s", cfg.Driver)
	}
}
