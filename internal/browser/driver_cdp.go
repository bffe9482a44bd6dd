package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// cdpDriver runs sessions on Chrome via the DevTools Protocol. All
// sessions share one exec allocator; each session is a dedicated tab
// context.
type cdpDriver struct {
	cfg      Config
	allocCtx context.Context
	cancel   context.CancelFunc
}

func newCDPDriver(cfg Config) (Driver, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &cdpDriver{
		cfg:      cfg,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

func (d *cdpDriver) Name() string { return DriverCDP }

func (d *cdpDriver) NewPage(ctx context.Context) (PageHandle, error) {
	pageCtx, cancel := chromedp.NewContext(d.allocCtx)

	// First Run on a fresh context launches the browser/tab.
	runCtx, runCancel := context.WithTimeout(pageCtx, d.cfg.NavigationTimeout)
	defer runCancel()
	if err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(d.cfg.ViewportWidth), int64(d.cfg.ViewportHeight)),
	); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to launch browser tab: %w", err)
	}

	return &cdpPage{
		cfg:    d.cfg,
		ctx:    pageCtx,
		cancel: cancel,
	}, nil
}

func (d *cdpDriver) Close() error {
	d.cancel()
	return nil
}

// cdpPage wraps one chromedp tab context.
type cdpPage struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// specialKeys maps logical key names to chromedp key runes.
var specialKeys = map[string]string{
	"PageDown": kb.PageDown,
	"PageUp":   kb.PageUp,
	"Home":     kb.Home,
	"End":      kb.End,
	"Enter":    kb.Enter,
	"Tab":      kb.Tab,
	"Escape":   kb.Escape,
}

func (p *cdpPage) run(timeout time.Duration, actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

func (p *cdpPage) Navigate(ctx context.Context, url string) error {
	if err := p.run(p.cfg.NavigationTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *cdpPage) Click(ctx context.Context, selector string) error {
	err := p.run(p.cfg.ActionTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *cdpPage) Fill(ctx context.Context, selector, text string) error {
	err := p.run(p.cfg.ActionTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (p *cdpPage) Press(ctx context.Context, key string) error {
	if mapped, ok := specialKeys[key]; ok {
		key = mapped
	}
	if err := p.run(p.cfg.ActionTimeout, chromedp.KeyEvent(key)); err != nil {
		return fmt.Errorf("press failed: %w", err)
	}
	return nil
}

func (p *cdpPage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	capture := chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			Do(ctx)
		return err
	})
	if err := p.run(p.cfg.ActionTimeout, capture); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

func (p *cdpPage) URL() string {
	var url string
	if err := p.run(5*time.Second, chromedp.Location(&url)); err != nil {
		return ""
	}
	return url
}

func (p *cdpPage) Title() string {
	var title string
	if err := p.run(5*time.Second, chromedp.Title(&title)); err != nil {
		return ""
	}
	return title
}

func (p *cdpPage) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.cancel()
	return nil
}
