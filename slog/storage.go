package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tablex"
)

var _ tablex.TableService = (*LoggingTableService)(nil)

// LoggingTableService wraps a TableService with logging. Reads that return
// a single record are logged with its ID; listings with their count.
type LoggingTableService struct {
	next   tablex.TableService
	logger *slog.Logger
}

// NewLoggingTableService creates a new LoggingTableService.
func NewLoggingTableService(next tablex.TableService, logger *slog.Logger) *LoggingTableService {
	return &LoggingTableService{next: next, logger: logger}
}

func (s *LoggingTableService) SaveTables(ctx context.Context, pageURL string, tables []*tablex.Table) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save tables",
			"url", pageURL,
			"tables", len(tables),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveTables(ctx, pageURL, tables)
}

func (s *LoggingTableService) FindTableByID(ctx context.Context, id string) (tbl *tablex.Table, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find table",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindTableByID(ctx, id)
}

func (s *LoggingTableService) FindTables(ctx context.Context, filter tablex.TableFilter) (tables []*tablex.Table, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find tables",
			"tables", len(tables),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindTables(ctx, filter)
}

func (s *LoggingTableService) DeleteTablesByURL(ctx context.Context, pageURL string) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete tables",
			"url", pageURL,
			"tables", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteTablesByURL(ctx, pageURL)
}
