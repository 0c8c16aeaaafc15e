package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/tablex"
)

var _ tablex.Converter = (*Converter)(nil)

// Converter turns table and rich text markup into Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", tablex.Errorf(tablex.EINVALID, "empty HTML input")
	}
	return c.conv.ConvertString(html)
}

// ConvertTable renders a table preceded by the headings and prose of its
// context. Level 0 content is written without a heading.
func (c *Converter) ConvertTable(tbl *tablex.Table) (string, error) {
	var b strings.Builder
	for _, level := range tbl.Context {
		if level.Level > 0 && level.Heading != nil {
			md, err := c.convertRich(level.Heading)
			if err != nil {
				return "", err
			}
			b.WriteString(strings.Repeat("#", level.Level))
			b.WriteString(" ")
			b.WriteString(md)
			b.WriteString("\n\n")
		}
		if err := c.writeSegments(&b, level.ContentBefore); err != nil {
			return "", err
		}
	}

	md, err := c.Convert(tbl.HTML())
	if err != nil {
		return "", err
	}
	b.WriteString(strings.TrimSpace(md))
	b.WriteString("\n")

	if n := len(tbl.Context); n > 0 && len(tbl.Context[n-1].ContentAfter) > 0 {
		b.WriteString("\n")
		if err := c.writeSegments(&b, tbl.Context[n-1].ContentAfter); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (c *Converter) writeSegments(b *strings.Builder, segments []*tablex.RichText) error {
	for _, seg := range segments {
		md, err := c.convertRich(seg)
		if err != nil {
			return err
		}
		if md == "" {
			continue
		}
		b.WriteString(md)
		b.WriteString("\n\n")
	}
	return nil
}

// convertRich converts the inner markup of a rich text value on one line.
func (c *Converter) convertRich(rt *tablex.RichText) (string, error) {
	html := rt.ToHTML(false, false)
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(md), " "), nil
}
