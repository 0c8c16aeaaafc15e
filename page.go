package tablex

import (
	"context"
	"time"
)

// Page is a page whose tables have been stored.
type Page struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	TableCount int       `json:"table_count"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// ProgressEvent is the kind of a crawl progress report.
type ProgressEvent int

const (
	ProgressStarted ProgressEvent = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// String returns the event name.
func (e ProgressEvent) String() string {
	switch e {
	case ProgressStarted:
		return "started"
	case ProgressCompleted:
		return "completed"
	case ProgressFailed:
		return "failed"
	case ProgressFinished:
		return "finished"
	}
	return "unknown"
}

// CrawlProgress reports progress during a crawl.
type CrawlProgress struct {
	Event     ProgressEvent
	URL       string
	Tables    int
	Completed int
	Total     int
	Error     error
}

// CrawlProgressFunc is called as pages are processed.
type CrawlProgressFunc func(CrawlProgress)

// PageFilter filters the pages returned by FindPages.
type PageFilter struct {
	URL *string

	Offset int
	Limit  int
}

// PageService lists the pages that have stored tables.
type PageService interface {
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)
}
