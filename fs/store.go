package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/tablex"
)

var _ tablex.TableWriter = (*Store)(nil)

// Store writes pages into a staging directory that replaces the output
// directory on Commit, so an interrupted crawl leaves earlier output intact.
type Store struct {
	baseDir string
	name    string
	writer  *Writer
}

// NewStore creates a Store. Files are written to baseDir/name.tmp and
// moved to baseDir/name on Commit.
func NewStore(baseDir, name string) *Store {
	s := &Store{baseDir: baseDir, name: name}
	s.writer = NewWriter(s.tempDir())
	return s
}

func (s *Store) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

// Dir returns the directory that holds the committed output.
func (s *Store) Dir() string {
	return filepath.Join(s.baseDir, s.name)
}

// SaveTables writes the tables of a page into the staging directory.
func (s *Store) SaveTables(ctx context.Context, pageURL string, tables []*tablex.Table) error {
	return s.writer.SaveTables(ctx, pageURL, tables)
}

// Commit replaces the output directory with the staged files.
func (s *Store) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.Dir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.Dir())
}

// Abort discards the staged files.
func (s *Store) Abort() error {
	return os.RemoveAll(s.tempDir())
}
