package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baigao417/meal-planner-assistant/internal/fetch"
	"github.com/baigao417/meal-planner-assistant/internal/logging"
)

var (
	// ErrHTTPRequestFailed is returned when the menu page cannot be downloaded.
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no menu text can be read from the page.
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// RenderFunc renders a page and returns its HTML.
type RenderFunc func(ctx context.Context, url string) (string, error)

// URLOptions controls how a menu page is fetched.
type URLOptions struct {
	// UseBrowser enables headless rendering when the plain fetch yields too little text.
	UseBrowser bool
	Fetch      *fetch.Options
	// Render defaults to headless Chrome.
	Render RenderFunc
}

func defaultRender(ctx context.Context, url string) (string, error) {
	return fetch.Render(ctx, url, fetch.BrowserOptions{})
}

// IngestFromURL fetches a menu page, extracts its menu text with platform-specific
// selectors and cleans it. Plain-text pages are used as they are. With UseBrowser
// set, HTML pages that yield too little text are re-read from a headless browser.
func IngestFromURL(ctx context.Context, urlStr string, opts URLOptions) (string, *Metadata, error) {
	log := logging.Ctx(ctx).With().Str("component", "ingestion").Str("url", urlStr).Logger()
	start := time.Now()

	page, err := fetch.NewClient(opts.Fetch).Get(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if page.Truncated {
		log.Warn().Int("limit_bytes", fetch.MaxBodyBytes).Msg("menu page truncated")
	}

	platform := fetch.DetectPlatform(page.URL)
	renderer := RendererHTTP
	text := page.Body

	if page.IsHTML() {
		text, err = fetch.MenuText(page.Body, platform)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}

		if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
			log.Debug().
				Str("platform", string(platform)).
				Int("chars", len(text)).
				Msg("menu text too short, rendering in browser")

			render := opts.Render
			if render == nil {
				render = defaultRender
			}
			if html, err := render(ctx, urlStr); err != nil {
				log.Warn().Err(err).Msg("browser rendering failed, using HTTP content")
			} else if rendered, err := fetch.MenuText(html, platform); err != nil {
				log.Warn().Err(err).Msg("browser content extraction failed, using HTTP content")
			} else {
				text = rendered
				renderer = RendererBrowser
			}
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%w: page has no text", ErrContentExtractionFailed)
	}

	metadata := NewMetadata(cleaned, urlStr)
	metadata.Platform = string(platform)
	metadata.Renderer = renderer

	log.Debug().
		Str("renderer", renderer).
		Int("chars", len(cleaned)).
		Dur("duration", time.Since(start)).
		Msg("ingested menu page")

	return cleaned, metadata, nil
}
