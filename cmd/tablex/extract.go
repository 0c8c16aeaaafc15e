package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/tablex"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, pageURL, err := c.load(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tablex.ErrorMessage(err))
		return err
	}

	tables, err := deps.Extractor.ExtractTables(pageURL, html, deps.Options)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tablex.ErrorMessage(err))
		return err
	}

	if c.Save {
		if err := deps.Tables.SaveTables(deps.Ctx, pageURL, tables); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tablex.ErrorMessage(err))
			return err
		}
	}

	if c.JSON {
		return writeJSON(deps.Stdout, tables)
	}

	if len(tables) == 0 {
		fmt.Fprintf(deps.Stdout, "No tables found in %s (%s)\n", pageURL, byteSize(len(html)))
		return nil
	}
	for _, tbl := range tables {
		writeSummary(deps.Stdout, tbl)
	}
	if c.Save {
		fmt.Fprintf(deps.Stdout, "Saved %d tables\n", len(tables))
	}
	return nil
}

// load returns the page HTML and the URL its tables are attributed to.
func (c *ExtractCmd) load(deps *Dependencies) (html, pageURL string, err error) {
	pageURL = c.URL
	if isRemote(c.Source) {
		if pageURL == "" {
			pageURL = c.Source
		}
		html, err = deps.Fetcher.Fetch(deps.Ctx, c.Source)
		return html, pageURL, err
	}

	data, err := os.ReadFile(c.Source)
	if err != nil {
		return "", "", tablex.Errorf(tablex.EINVALID, "cannot read %s: %v", c.Source, err)
	}
	if pageURL == "" {
		abs, err := filepath.Abs(c.Source)
		if err != nil {
			return "", "", err
		}
		pageURL = "file://" + filepath.ToSlash(abs)
	}
	return string(data), pageURL, nil
}

// writeSummary prints the ID, size and caption of a table followed by the
// headings leading to it.
func writeSummary(w io.Writer, tbl *tablex.Table) {
	fmt.Fprintf(w, "%s  %dx%d", tbl.ID, tbl.NumRows(), tbl.NumCols())
	if tbl.Caption != "" {
		fmt.Fprintf(w, "  %q", tbl.Caption)
	}
	fmt.Fprintln(w)
	if path := headingPath(tbl); path != "" {
		fmt.Fprintf(w, "  %s\n", path)
	}
}

func headingPath(tbl *tablex.Table) string {
	var headings []string
	for _, level := range tbl.Context {
		if level.Level > 0 && level.Heading != nil {
			headings = append(headings, strings.TrimSpace(level.Heading.Text))
		}
	}
	return strings.Join(headings, " > ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
