// Package fetch retrieves restaurant menu pages and reduces them to plain text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; MealPlannerAssistant/1.0)"
	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes = 5 << 20
)

var (
	ErrInvalidURL = errors.New("invalid menu URL")
	// ErrUnsupportedContent is returned for responses that are not HTML or plain text.
	ErrUnsupportedContent = errors.New("unsupported content type")
)

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP status %d", e.URL, e.Code)
}

// Page is a fetched menu page.
type Page struct {
	URL         string
	Body        string
	ContentType string
	StatusCode  int
	// Truncated is set when the body exceeded MaxBodyBytes.
	Truncated bool
}

// IsHTML reports whether the page needs markup stripped.
func (p *Page) IsHTML() bool {
	return p.ContentType == "" || p.ContentType == "text/html" || p.ContentType == "application/xhtml+xml"
}

// Options configures a Client. Zero fields take the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Transport http.RoundTripper
}

// Client fetches menu pages over plain HTTP.
type Client struct {
	http      *http.Client
	userAgent string
	headers   map[string]string
}

// NewClient builds a client from opts, which may be nil.
func NewClient(opts *Options) *Client {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: o.Timeout, Transport: o.Transport},
		userAgent: o.UserAgent,
		headers:   o.Headers,
	}
}

// Get downloads rawURL. A non-200 response returns the page together with a *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	page := &Page{URL: rawURL, StatusCode: resp.StatusCode}
	if resp.Request != nil {
		page.URL = resp.Request.URL.String()
	}
	if len(body) > MaxBodyBytes {
		body = body[:MaxBodyBytes]
		page.Truncated = true
	}
	page.Body = string(body)
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			page.ContentType = mediaType
		}
	}

	if resp.StatusCode != http.StatusOK {
		return page, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	if !page.IsHTML() && !strings.HasPrefix(page.ContentType, "text/") {
		return page, fmt.Errorf("%w: %s", ErrUnsupportedContent, page.ContentType)
	}
	return page, nil
}

// boilerplate is removed from every page before extraction.
const boilerplate = "nav, footer, header, script, style, noscript, svg, iframe, .ad, .ads, .advertisement, .sidebar, .cookie-banner, .popup"

// blockSelector marks elements whose text starts on its own line.
const blockSelector = "p, li, tr, br, div, section, h1, h2, h3, h4, h5, h6, dt, dd"

// MenuText reduces an HTML page to its menu text using the platform's selectors,
// one menu entry per line.
func MenuText(html string, platform Platform) (string, error) {
	return ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
}

// ExtractMainText parses html, drops boilerplate and noise, and returns the text of
// the first element matching a content selector, or of <body> when none match.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	doc.Find(boilerplate).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if match := doc.Find(selector); match.Length() > 0 {
			content = match.First()
			break
		}
	}

	content.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		sel.AfterHtml("\n")
	})
	return cleanWhitespace(content.Text()), nil
}

// MenuSelectors returns selectors that usually wrap the dish list on restaurant sites.
func MenuSelectors() []string {
	return []string{
		".menu",
		"#menu",
		".menu-items",
		".food-menu",
		"[data-testid='menu']",
		"[itemtype*='schema.org/Menu']",
		"main",
		"article",
		"#content",
	}
}

// cleanWhitespace collapses runs of spaces within a line and drops blank lines.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
