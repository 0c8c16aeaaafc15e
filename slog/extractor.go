package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/tablex"
)

var _ tablex.TableExtractor = (*LoggingTableExtractor)(nil)

// LoggingTableExtractor wraps a TableExtractor with logging.
type LoggingTableExtractor struct {
	next   tablex.TableExtractor
	logger *slog.Logger
}

// NewLoggingTableExtractor creates a new LoggingTableExtractor.
func NewLoggingTableExtractor(next tablex.TableExtractor, logger *slog.Logger) *LoggingTableExtractor {
	return &LoggingTableExtractor{next: next, logger: logger}
}

// ExtractTables logs the number of tables found on the page.
func (e *LoggingTableExtractor) ExtractTables(pageURL, html string, opts tablex.ExtractOptions) (tables []*tablex.Table, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract tables",
			"url", pageURL,
			"bytes", len(html),
			"tables", len(tables),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractTables(pageURL, html, opts)
}
