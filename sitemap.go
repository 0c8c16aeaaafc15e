package tablex

import (
	"context"
	"regexp"
	"slices"
)

// SitemapService discovers page URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap. Sitemap directives
	// in robots.txt are tried first, then /sitemap.xml. Sitemap indexes are
	// resolved recursively. A nil filter returns every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including and excluding URLs.
type URLFilter struct {
	// Include, when set, keeps only URLs matching at least one pattern.
	Include []*regexp.Regexp

	// Exclude drops URLs matching any pattern. It is applied after Include.
	Exclude []*regexp.Regexp
}

// Match reports whether the URL passes the filter. A nil filter passes
// everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}
