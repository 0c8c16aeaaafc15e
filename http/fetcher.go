// Package http provides HTTP implementations of tablex.Fetcher and
// tablex.SitemapService for static pages, and a JSON API over stored tables.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/tablex"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the fetcher to the sites it crawls.
const DefaultUserAgent = "tablex/1.0 (+https://github.com/fwojciec/tablex)"

// MaxBodySize bounds the number of bytes read from a page.
const MaxBodySize = 32 << 20

var _ tablex.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML with plain HTTP requests. It does not run
// JavaScript; use rod.Fetcher for pages that build their tables in the
// browser.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", tablex.Errorf(tablex.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", tablex.Errorf(tablex.ENOTFOUND, "HTTP 404 for %s", url)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	// Pages are decoded to UTF-8 using the Content-Type header or the
	// document's meta charset.
	r, err := charset.NewReader(io.LimitReader(resp.Body, MaxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", tablex.Errorf(tablex.EINVALID, "unsupported charset for %s: %v", url, err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Close is a no-op; http.Client holds no resources that need releasing.
func (f *Fetcher) Close() error {
	return nil
}
