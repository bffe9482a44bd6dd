package browser

import "time"

// Driver names.
const (
	DriverPlaywright = "playwright"
	DriverCDP        = "cdp"
)

// Config is the browser configuration.
type Config struct {
	// Driver selects the automation backend: "playwright" (default) or
	// "cdp" (Chrome DevTools Protocol via chromedp).
	Driver string

	// Headless runs browsers without UI.
	Headless bool

	// NoSandbox disables the Chrome sandbox (needed in some containers).
	NoSandbox bool

	ViewportWidth  int
	ViewportHeight int
	UserAgent      string

	// ScreenshotsDir is where per-session screenshots are written.
	ScreenshotsDir string

	// SessionTTL is how long an idle session lives before the reaper
	// closes it. 0 disables reaping.
	SessionTTL time.Duration

	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
}

// ResolveConfig applies defaults to a browser config.
func ResolveConfig(cfg Config) Config {
	if cfg.Driver == "" {
		cfg.Driver = DriverPlaywright
	}
	if cfg.ViewportWidth == 0 {
		cfg.ViewportWidth = 1920
	}
	if cfg.ViewportHeight == 0 {
		cfg.ViewportHeight = 1080
	}
	if cfg.NavigationTimeout == 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}
	if cfg.ActionTimeout == 0 {
		cfg.ActionTimeout = 10 * time.Second
	}
	return cfg
}
