package tablex

// LinkExtractor finds the pages a page links to.
type LinkExtractor interface {
	// ExtractLinks returns the distinct same-host links of a page whose
	// path starts with the page's own path, in document order. Fragments
	// are dropped and the page itself is left out.
	ExtractLinks(html, pageURL string) ([]string, error)
}
