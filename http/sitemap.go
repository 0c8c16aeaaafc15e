package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/tablex"
)

var _ tablex.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from robots.txt and sitemap XML.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the page URLs listed in the site's sitemaps, in
// sitemap order and without duplicates. When baseURL has a path, only
// URLs below that path are returned. A site without sitemaps yields an
// empty slice.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *tablex.URLFilter) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, tablex.Errorf(tablex.EINVALID, "invalid base URL %q", baseURL)
	}
	prefix := strings.TrimSuffix(base.Path, "/") + "/"

	queue, err := s.sitemapLocations(ctx, base)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenPages := make(map[string]bool)
	seenSitemaps := make(map[string]bool)
	for len(queue) > 0 {
		loc := queue[0]
		queue = queue[1:]
		if seenSitemaps[loc] {
			continue
		}
		seenSitemaps[loc] = true

		root, err := s.readSitemap(ctx, loc)
		if err != nil {
			return nil, err
		}
		if root.Tag == "sitemapindex" {
			queue = append(queue, locations(root, "sitemap")...)
			continue
		}
		for _, page := range locations(root, "url") {
			if seenPages[page] || !underPath(page, prefix) || !filter.Match(page) {
				continue
			}
			seenPages[page] = true
			urls = append(urls, page)
		}
	}
	return urls, nil
}

// sitemapLocations returns the sitemaps declared in robots.txt, or
// /sitemap.xml when robots.txt declares none and the file exists.
func (s *SitemapService) sitemapLocations(ctx context.Context, base *url.URL) ([]string, error) {
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	if body, err := s.get(ctx, root.JoinPath("robots.txt").String()); err == nil {
		defer body.Close()
		var sitemaps []string
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
			if ok && strings.EqualFold(key, "sitemap") {
				if loc := strings.TrimSpace(value); loc != "" {
					sitemaps = append(sitemaps, loc)
				}
			}
		}
		if len(sitemaps) > 0 {
			return sitemaps, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fallback := root.JoinPath("sitemap.xml").String()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, fallback, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return []string{fallback}, nil
}

// readSitemap fetches and parses a sitemap, decompressing .gz files.
func (s *SitemapService) readSitemap(ctx context.Context, loc string) (*etree.Element, error) {
	body, err := s.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(loc, ".gz") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("decompressing sitemap %s: %w", loc, err)
		}
		defer gz.Close()
		r = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing sitemap %s: %w", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap %s", loc)
	}
	return root, nil
}

// locations returns the trimmed <loc> values of the children named tag.
func locations(root *etree.Element, tag string) []string {
	var locs []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if v := strings.TrimSpace(loc.Text()); v != "" {
				locs = append(locs, v)
			}
		}
	}
	return locs
}

// underPath reports whether a URL's path lies below prefix, which ends in
// a slash. "/docs/" matches "/docs" and "/docs/intro" but not "/documents".
func underPath(rawURL, prefix string) bool {
	if prefix == "/" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path+"/", prefix)
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}
