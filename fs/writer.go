// Package fs stores extracted tables as JSON files.
package fs

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/tablex"
)

// URLToPath converts a page URL to a relative file path.
// Example: https://example.com/wiki/rivers → wiki/rivers.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", tablex.Errorf(tablex.EINVALID, "Invalid URL %q.", rawURL)
	}

	p := path.Clean("/" + u.Path)
	if p == "/" {
		return "index.json", nil
	}
	p = strings.TrimPrefix(p, "/")
	if strings.HasSuffix(u.Path, "/") {
		return p + "/index.json", nil
	}
	return p + ".json", nil
}

// PageFile is the content of a file written by Writer.
type PageFile struct {
	URL    string          `json:"url"`
	Tables []*tablex.Table `json:"tables"`
}

var _ tablex.TableWriter = (*Writer)(nil)

// Writer writes the tables of each page to a JSON file under a base
// directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// SaveTables writes the tables of a page, replacing any earlier file.
func (w *Writer) SaveTables(ctx context.Context, pageURL string, tables []*tablex.Table) error {
	if pageURL == "" {
		return tablex.Errorf(tablex.EINVALID, "Page URL required.")
	}
	for _, tbl := range tables {
		if err := tbl.Validate(); err != nil {
			return err
		}
	}

	relPath, err := URLToPath(pageURL)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(w.baseDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	if tables == nil {
		tables = []*tablex.Table{}
	}
	data, err := json.MarshalIndent(PageFile{URL: pageURL, Tables: tables}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, append(data, '\n'), 0644)
}

// ReadPageFile reads a file written by Writer.
func ReadPageFile(name string) (*PageFile, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var f PageFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, tablex.Errorf(tablex.EINVALID, "Invalid page file %s: %v", name, err)
	}
	return &f, nil
}
