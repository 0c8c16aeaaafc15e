package mock

import (
	"context"

	"github.com/fwojciec/tablex"
)

var _ tablex.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of tablex.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *tablex.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *tablex.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
