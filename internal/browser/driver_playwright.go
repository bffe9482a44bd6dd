package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// playwrightDriver runs sessions on a shared headless Chromium launched
// through Playwright. Each session gets its own browser context and page.
type playwrightDriver struct {
	mu      sync.Mutex
	cfg     Config
	pw      *playwright.Playwright
	browser playwright.Browser
}

func newPlaywrightDriver(cfg Config) (Driver, error) {
	return &playwrightDriver{cfg: cfg}, nil
}

func (d *playwrightDriver) Name() string { return DriverPlaywright }

// ensureBrowser lazily installs Playwright and launches Chromium. The
// install step downloads browsers on first run, so it stays off the
// constructor path.
func (d *playwrightDriver) ensureBrowser() (playwright.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser != nil && d.browser.IsConnected() {
		return d.browser, nil
	}

	if d.pw == nil {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}, Verbose: false}); err != nil {
			return nil, fmt.Errorf("failed to install playwright browsers: %w", err)
		}
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start playwright: %w", err)
		}
		d.pw = pw
	}

	args := []string{
		"--disable-dev-shm-usage",
		"--disable-accelerated-2d-canvas",
		"--no-first-run",
		"--disable-gpu",
	}
	if d.cfg.NoSandbox {
		args = append(args, "--no-sandbox", "--disable-setuid-sandbox")
	}

	browser, err := d.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.cfg.Headless),
		Args:     args,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	d.browser = browser
	return browser, nil
}

func (d *playwrightDriver) NewPage(ctx context.Context) (PageHandle, error) {
	browser, err := d.ensureBrowser()
	if err != nil {
		return nil, err
	}

	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  d.cfg.ViewportWidth,
			Height: d.cfg.ViewportHeight,
		},
	}
	if d.cfg.UserAgent != "" {
		opts.UserAgent = playwright.String(d.cfg.UserAgent)
	}

	browserCtx, err := browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &playwrightPage{
		cfg:     d.cfg,
		context: browserCtx,
		page:    page,
	}, nil
}

func (d *playwrightDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser != nil {
		_ = d.browser.Close()
		d.browser = nil
	}
	if d.pw != nil {
		err := d.pw.Stop()
		d.pw = nil
		return err
	}
	return nil
}

// playwrightPage wraps one Playwright context+page pair.
type playwrightPage struct {
	cfg     Config
	context playwright.BrowserContext
	page    playwright.Page
	closed  bool
}

func (p *playwrightPage) Navigate(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(p.cfg.NavigationTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Click(ctx context.Context, selector string) error {
	locator := p.page.Locator(selector)
	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(p.cfg.ActionTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("wait for %s failed: %w", selector, err)
	}
	if err := locator.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(p.cfg.ActionTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Fill(ctx context.Context, selector, text string) error {
	locator := p.page.Locator(selector)
	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(p.cfg.ActionTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("wait for %s failed: %w", selector, err)
	}
	if err := locator.Fill(text, playwright.LocatorFillOptions{
		Timeout: playwright.Float(float64(p.cfg.ActionTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Press(ctx context.Context, key string) error {
	if err := p.page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("press failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Type: playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title() string {
	title, err := p.page.Title()
	if err != nil {
		return ""
	}
	return title
}

func (p *playwrightPage) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	_ = p.page.Close()
	return p.context.Close()
}
