package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	filter, err := c.urlFilter()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tablex.ErrorMessage(err))
		return err
	}

	var store *fs.Store
	switch {
	case c.Save:
		deps.Crawler.Writer = deps.Tables
	case c.Out != "":
		store = fs.NewStore(filepath.Dir(c.Out), filepath.Base(c.Out))
		deps.Crawler.Writer = store
	default:
		deps.Crawler.Writer = &summaryWriter{w: deps.Stdout}
	}

	progress := func(p tablex.CrawlProgress) {
		switch p.Event {
		case tablex.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d URLs\n", p.Total)
		case tablex.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", shortURL(p.URL, 60), p.Error)
		}
	}

	result, err := deps.Crawler.CrawlSite(deps.Ctx, c.URL, filter, deps.Options, progress)
	if err != nil {
		if store != nil {
			_ = store.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}
	if store != nil {
		if err := store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Extracted %d tables from %d pages", result.Tables, result.Pages)
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, " (%d failed)", result.Failed)
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}

func (c *CrawlCmd) urlFilter() (*tablex.URLFilter, error) {
	if len(c.Filter) == 0 && len(c.Exclude) == 0 {
		return nil, nil
	}
	compile := func(patterns []string) ([]*regexp.Regexp, error) {
		var out []*regexp.Regexp
		for _, pattern := range patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, tablex.Errorf(tablex.EINVALID, "invalid filter pattern %q: %v", pattern, err)
			}
			out = append(out, re)
		}
		return out, nil
	}

	var f tablex.URLFilter
	var err error
	if f.Include, err = compile(c.Filter); err != nil {
		return nil, err
	}
	if f.Exclude, err = compile(c.Exclude); err != nil {
		return nil, err
	}
	return &f, nil
}

// summaryWriter prints what a crawl found instead of storing it. Saves are
// made from one goroutine at a time.
type summaryWriter struct {
	w io.Writer
}

func (s *summaryWriter) SaveTables(_ context.Context, pageURL string, tables []*tablex.Table) error {
	fmt.Fprintf(s.w, "%s: %d tables\n", pageURL, len(tables))
	for _, tbl := range tables {
		writeSummary(s.w, tbl)
	}
	return nil
}
