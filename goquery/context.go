package goquery

import (
	"math"
	"slices"

	"github.com/fwojciec/tablex"
	"golang.org/x/net/html"
)

var _ tablex.ContextExtractor[*html.Node] = (*ContextExtractor)(nil)

// config holds the tag classification shared by the extractors.
type config struct {
	ignored    []string
	discard    []string
	boundary   []string
	headings   []string
	inlineOnly bool
}

func defaultConfig() config {
	return config{
		ignored:    []string{"div"},
		discard:    []string{"script", "style", "noscript", "table"},
		boundary:   append([]string{"table"}, defaultHeadingTags...),
		headings:   defaultHeadingTags,
		inlineOnly: true,
	}
}

// Option configures a ContextExtractor or TableExtractor.
type Option func(*config)

// WithIgnoredTags sets the tags whose text is kept without a span.
func WithIgnoredTags(tags ...string) Option {
	return func(c *config) { c.ignored = tags }
}

// WithDiscardTags sets the tags dropped from context with their content.
func WithDiscardTags(tags ...string) Option {
	return func(c *config) { c.discard = tags }
}

// WithBoundaryTags sets the tags that end the content following a table.
func WithBoundaryTags(tags ...string) Option {
	return func(c *config) { c.boundary = tags }
}

// WithHeadingTags sets the tags that open a context level. Only tags of the
// form hN carry a level; others are ignored.
func WithHeadingTags(tags ...string) Option {
	return func(c *config) { c.headings = tags }
}

// WithInlineOnly sets whether only inline elements get spans.
func WithInlineOnly(v bool) Option {
	return func(c *config) { c.inlineOnly = v }
}

// ContextExtractor collects the headings and prose leading to an element.
//
// It assumes content renders top to bottom in document order. Content
// before the element is everything rendered before it inside the body;
// content after it is limited to the following siblings up to the next
// boundary element.
type ContextExtractor struct {
	renderer *Renderer
	discard  tagSet
	boundary tagSet
	headings tagSet
}

// NewContextExtractor returns a new instance of ContextExtractor.
func NewContextExtractor(opts ...Option) *ContextExtractor {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return newContextExtractor(c)
}

func newContextExtractor(c config) *ContextExtractor {
	return &ContextExtractor{
		renderer: NewRenderer(c.ignored, c.discard, c.headings, c.inlineOnly),
		discard:  newTagSet(c.discard...),
		boundary: newTagSet(c.boundary...),
		headings: newTagSet(c.headings...),
	}
}

// ExtractContext returns the heading levels leading to target, outer first,
// with strictly increasing levels. The first entry is the level 0 document
// start. Content following target is attached to the last entry.
func (e *ContextExtractor) ExtractContext(target *html.Node) ([]tablex.ContentHierarchy, error) {
	before, after, err := e.locate(target)
	if err != nil {
		return nil, err
	}

	levels := []tablex.ContentHierarchy{{Level: 0, Heading: tablex.EmptyRichText()}}
	for _, seg := range e.flatten(before) {
		if level, ok := e.headingLevel(seg.Tag()); ok {
			levels = append(levels, tablex.ContentHierarchy{Level: level, Heading: seg})
			continue
		}
		last := &levels[len(levels)-1]
		last.ContentBefore = append(last.ContentBefore, seg)
	}

	// Keep only the headings that enclose target: scanning back from
	// target, each kept heading must be shallower than the one after it.
	kept := make([]tablex.ContentHierarchy, 0, len(levels))
	minLevel := math.MaxInt
	for _, level := range slices.Backward(levels) {
		if level.Level < minLevel {
			minLevel = level.Level
			kept = append(kept, level)
		}
	}
	slices.Reverse(kept)

	last := &kept[len(kept)-1]
	last.ContentAfter = append(last.ContentAfter, e.flatten(after)...)
	return kept, nil
}

func (e *ContextExtractor) headingLevel(tag string) (int, bool) {
	if !e.headings[tag] {
		return 0, false
	}
	return headingLevel(tag)
}
