package goquery

import "strconv"

// tagSet is a set of lower-case tag names.
type tagSet map[string]bool

func newTagSet(tags ...string) tagSet {
	s := make(tagSet, len(tags))
	for _, tag := range tags {
		s[tag] = true
	}
	return s
}

// inlineTags are elements laid out in the flow of the surrounding line.
var inlineTags = newTagSet(
	"a", "abbr", "acronym", "audio", "b", "bdi", "bdo", "big", "button",
	"canvas", "cite", "code", "data", "datalist", "del", "dfn", "em", "embed",
	"i", "iframe", "img", "input", "ins", "kbd", "label", "map", "mark",
	"meter", "object", "output", "picture", "progress", "q", "ruby", "s",
	"samp", "select", "slot", "small", "span", "strong", "sub", "sup", "svg",
	"template", "textarea", "time", "tt", "u", "var", "video", "wbr",
)

// blockTags are elements that start on a new line.
var blockTags = newTagSet(
	"address", "article", "aside", "blockquote", "body", "br", "dd",
	"details", "dialog", "div", "dl", "dt", "fieldset", "figcaption",
	"figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
	"header", "hgroup", "hr", "li", "main", "nav", "ol", "p", "pre",
	"section", "table", "ul",
)

var defaultHeadingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// headingLevel returns N for a tag of the form hN.
func headingLevel(tag string) (int, bool) {
	if len(tag) < 2 || tag[0] != 'h' {
		return 0, false
	}
	n, err := strconv.Atoi(tag[1:])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
