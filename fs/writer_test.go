package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "simple path", url: "https://example.com/wiki/rivers", want: "wiki/rivers.json"},
		{name: "trailing slash becomes index", url: "https://example.com/wiki/", want: "wiki/index.json"},
		{name: "root path becomes index", url: "https://example.com/", want: "index.json"},
		{name: "root without slash", url: "https://example.com", want: "index.json"},
		{name: "ignores query and fragment", url: "https://example.com/stats?year=2020#top", want: "stats.json"},
		{name: "dot segments stay inside base", url: "https://example.com/../../etc/passwd", want: "etc/passwd.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects invalid URL", func(t *testing.T) {
		t.Parallel()

		_, err := fs.URLToPath("http://[::1")
		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
	})
}

func sampleTable(pageURL string) *tablex.Table {
	return &tablex.Table{
		ID:      pageURL + "?table_no=0",
		URL:     pageURL,
		Caption: "Rivers",
		Rows: []tablex.Row{
			{Cells: []tablex.Cell{{IsHeader: true, Rowspan: 1, Colspan: 1, Value: tablex.NewRichText("Name")}}},
			{Cells: []tablex.Cell{{Rowspan: 1, Colspan: 1, Value: tablex.NewRichText("Nile")}}},
		},
	}
}

func TestWriter_SaveTables(t *testing.T) {
	t.Parallel()

	t.Run("writes page file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir)
		pageURL := "https://example.com/wiki/rivers"

		err := w.SaveTables(context.Background(), pageURL, []*tablex.Table{sampleTable(pageURL)})
		require.NoError(t, err)

		f, err := fs.ReadPageFile(filepath.Join(dir, "wiki", "rivers.json"))
		require.NoError(t, err)
		assert.Equal(t, pageURL, f.URL)
		require.Len(t, f.Tables, 1)
		assert.Equal(t, "Rivers", f.Tables[0].Caption)
		assert.Equal(t, "Nile", f.Tables[0].Rows[1].Cells[0].String())
	})

	t.Run("replaces earlier file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir)
		pageURL := "https://example.com/"

		require.NoError(t, w.SaveTables(context.Background(), pageURL, []*tablex.Table{sampleTable(pageURL)}))
		require.NoError(t, w.SaveTables(context.Background(), pageURL, nil))

		f, err := fs.ReadPageFile(filepath.Join(dir, "index.json"))
		require.NoError(t, err)
		assert.Empty(t, f.Tables)
	})

	t.Run("rejects invalid table", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())
		err := w.SaveTables(context.Background(), "https://example.com/", []*tablex.Table{{}})
		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
	})

	t.Run("rejects empty page URL", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())
		err := w.SaveTables(context.Background(), "", nil)
		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
	})
}

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("commit replaces output directory", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		stale := filepath.Join(base, "out", "stale.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
		require.NoError(t, os.WriteFile(stale, []byte("{}"), 0644))

		s := fs.NewStore(base, "out")
		pageURL := "https://example.com/wiki/rivers"
		require.NoError(t, s.SaveTables(context.Background(), pageURL, []*tablex.Table{sampleTable(pageURL)}))

		_, err := os.Stat(filepath.Join(base, "out", "wiki", "rivers.json"))
		require.True(t, os.IsNotExist(err))

		require.NoError(t, s.Commit())

		assert.FileExists(t, filepath.Join(s.Dir(), "wiki", "rivers.json"))
		assert.NoFileExists(t, stale)
		assert.NoDirExists(t, filepath.Join(base, "out.tmp"))
	})

	t.Run("abort keeps output directory", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		kept := filepath.Join(base, "out", "index.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(kept), 0755))
		require.NoError(t, os.WriteFile(kept, []byte("{}"), 0644))

		s := fs.NewStore(base, "out")
		require.NoError(t, s.SaveTables(context.Background(), "https://example.com/", nil))
		require.NoError(t, s.Abort())

		assert.FileExists(t, kept)
		assert.NoDirExists(t, filepath.Join(base, "out.tmp"))
	})

	t.Run("commit with no pages leaves empty directory", func(t *testing.T) {
		t.Parallel()

		s := fs.NewStore(t.TempDir(), "out")
		require.NoError(t, s.Commit())
		assert.DirExists(t, s.Dir())
	})
}
