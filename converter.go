package tablex

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as the output of
	// Table.HTML or RichText.ToHTML, into Markdown.
	Convert(html string) (string, error)
}
