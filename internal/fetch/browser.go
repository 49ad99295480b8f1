package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/baigao417/meal-planner-assistant/internal/logging"
)

// MinContentLength is the minimum extracted menu text length for a plain HTTP
// fetch to count as successful. Delivery sites that render menus client-side
// return far less.
const MinContentLength = 200

const (
	DefaultBrowserTimeout = 30 * time.Second
	// DefaultSettleDelay is how long a rendered page gets to load its menu after the shell is ready.
	DefaultSettleDelay = 3 * time.Second
)

// consentButtons matches cookie and region dialogs that cover the menu.
const consentButtons = `button[id*="accept"], button[class*="accept"], button[class*="consent"]`

// ShouldUseBrowser reports whether the extracted text is too short to be a real menu.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// BrowserOptions configures a headless render. Zero fields take the defaults.
type BrowserOptions struct {
	Timeout     time.Duration
	SettleDelay time.Duration
	// WaitFor is a CSS selector that must be visible before the page is read.
	// Defaults to body.
	WaitFor   string
	UserAgent string
}

// Render loads rawURL in headless Chrome and returns the rendered HTML.
// Chrome or Chromium must be installed.
func Render(ctx context.Context, rawURL string, opts BrowserOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultBrowserTimeout
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	} else if opts.SettleDelay == 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.WaitFor == "" {
		opts.WaitFor = "body"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	log := logging.Ctx(ctx).With().Str("component", "browser").Str("url", rawURL).Logger()
	started := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(opts.UserAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitVisible(opts.WaitFor, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Best effort; most pages have no dialog.
			_ = chromedp.Click(consentButtons, chromedp.ByQuery, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.Sleep(opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", rawURL, err)
	}

	log.Debug().Int("bytes", len(html)).Dur("duration", time.Since(started)).Msg("rendered page")
	return html, nil
}
