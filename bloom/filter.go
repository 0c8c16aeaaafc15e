// Package bloom deduplicates crawl URLs with a Bloom filter.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter remembers the URLs seen during a crawl. URLs that differ only in
// fragment or in scheme and host case are treated as the same page.
// Filter is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(max(n, 1), fpRate)}
}

// Seen reports whether rawURL was probably added before, and adds it.
// A false positive makes a page be skipped; a false negative never happens.
func (f *Filter) Seen(rawURL string) bool {
	key := normalize(rawURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAddString(key)
}

func normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
