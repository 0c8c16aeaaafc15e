package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tablex"
)

var _ tablex.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor finds the links below a page used to seed crawls of sites
// without a sitemap.
type LinkExtractor struct{}

// NewLinkExtractor returns a new instance of LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the links of a page that stay under its path.
func (e *LinkExtractor) ExtractLinks(html, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, tablex.Errorf(tablex.EINVALID, "invalid page URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, tablex.Errorf(tablex.EINVALID, "failed to parse HTML: %v", err)
	}

	prefix := base.Path
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		prefix = prefix[:i+1]
	}
	self := *base
	self.Fragment = ""

	seen := map[string]bool{self.String(): true}
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || isNonHTTPLink(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		u := base.ResolveReference(ref)
		u.Fragment = ""
		if u.Host != base.Host || !strings.HasPrefix(u.Path, prefix) {
			return
		}
		if s := u.String(); !seen[s] {
			seen[s] = true
			links = append(links, s)
		}
	})
	return links, nil
}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, scheme) {
			return true
		}
	}
	return false
}
