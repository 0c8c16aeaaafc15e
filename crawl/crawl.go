// Package crawl fetches pages concurrently, extracts their tables and
// stores them.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed at once when
// Crawler.Concurrency is not set.
const DefaultConcurrency = 4

const falsePositiveRate = 0.001

// Crawler fetches pages, extracts their tables and saves them through a
// TableWriter. A failing page is reported and counted but never stops the
// crawl.
type Crawler struct {
	Sitemaps    tablex.SitemapService
	Fetcher     tablex.Fetcher
	Extractor   tablex.TableExtractor
	Links       tablex.LinkExtractor
	Writer      tablex.TableWriter
	RateLimiter tablex.DomainLimiter
	Logger      *slog.Logger
	Concurrency int
	// RetryDelays are the waits between fetch attempts. Nil means
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration
}

// Result holds the outcome of a crawl.
type Result struct {
	Pages  int
	Failed int
	Tables int
}

type pageResult struct {
	url    string
	tables []*tablex.Table
	err    error
}

// CrawlSite discovers the pages of a site from its sitemaps and crawls
// them. A site without a sitemap is crawled from its start page and, when
// Links is set, the pages the start page links to below its path.
func (c *Crawler) CrawlSite(ctx context.Context, siteURL string, filter *tablex.URLFilter, opts tablex.ExtractOptions, progress tablex.CrawlProgressFunc) (*Result, error) {
	urls, err := c.Sitemaps.DiscoverURLs(ctx, siteURL, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}
	if len(urls) == 0 {
		urls = c.seed(ctx, siteURL, filter)
	}
	return c.Crawl(ctx, urls, opts, progress)
}

// seed lists the start page and the links found on it. A start page that
// cannot be read yields itself only, so the crawl reports the failure.
func (c *Crawler) seed(ctx context.Context, siteURL string, filter *tablex.URLFilter) []string {
	urls := []string{siteURL}
	if c.Links == nil {
		return slices.DeleteFunc(urls, func(u string) bool { return !filter.Match(u) })
	}

	html, err := c.Fetcher.Fetch(ctx, siteURL)
	if err == nil {
		var links []string
		if links, err = c.Links.ExtractLinks(html, siteURL); err == nil {
			urls = append(urls, links...)
		}
	}
	if err != nil && c.Logger != nil {
		c.Logger.Warn("link discovery", "url", siteURL, "err", err)
	}
	return slices.DeleteFunc(urls, func(u string) bool { return !filter.Match(u) })
}

// Crawl processes each distinct URL once. Pages are saved one at a time in
// the order they finish. The progress callback, if set, is called from the
// calling goroutine only.
func (c *Crawler) Crawl(ctx context.Context, urls []string, opts tablex.ExtractOptions, progress tablex.CrawlProgressFunc) (*Result, error) {
	report := func(p tablex.CrawlProgress) {
		if progress != nil {
			progress(p)
		}
	}

	seen := bloom.NewFilter(uint(len(urls)), falsePositiveRate)
	var pending []string
	for _, u := range urls {
		if !seen.Seen(u) {
			pending = append(pending, u)
		}
	}
	total := len(pending)
	report(tablex.CrawlProgress{Event: tablex.ProgressStarted, Total: total})

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make(chan pageResult)
	var g errgroup.Group
	g.SetLimit(concurrency)
	go func() {
		for _, u := range pending {
			g.Go(func() error {
				tables, err := c.process(ctx, u, opts)
				results <- pageResult{url: u, tables: tables, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	var res Result
	completed := 0
	for r := range results {
		completed++
		if r.err == nil {
			r.err = c.Writer.SaveTables(ctx, r.url, r.tables)
		}
		if r.err != nil {
			res.Failed++
			report(tablex.CrawlProgress{
				Event:     tablex.ProgressFailed,
				URL:       r.url,
				Completed: completed,
				Total:     total,
				Error:     r.err,
			})
			continue
		}
		res.Pages++
		res.Tables += len(r.tables)
		report(tablex.CrawlProgress{
			Event:     tablex.ProgressCompleted,
			URL:       r.url,
			Tables:    len(r.tables),
			Completed: completed,
			Total:     total,
		})
	}

	report(tablex.CrawlProgress{Event: tablex.ProgressFinished, Completed: completed, Total: total})
	if err := ctx.Err(); err != nil {
		return &res, err
	}
	return &res, nil
}

// process fetches one page and extracts its tables.
func (c *Crawler) process(ctx context.Context, pageURL string, opts tablex.ExtractOptions) ([]*tablex.Table, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, tablex.Errorf(tablex.EINVALID, "Invalid URL %q.", pageURL)
	}
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, c.Fetcher, pageURL, delays, func(attempt int, err error) {
		if c.Logger != nil {
			c.Logger.Warn("retry fetch", "url", pageURL, "attempt", attempt, "err", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return c.Extractor.ExtractTables(pageURL, html, opts)
}
