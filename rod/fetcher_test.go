//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/goquery"
	"github.com/fwojciec/tablex/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns tables built by scripts", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, `<!DOCTYPE html>
<html><body>
<div id="target">Loading...</div>
<script>
document.getElementById('target').innerHTML =
  '<table><tr><th>Name</th></tr><tr><td>Rendered</td></tr></table>';
</script>
</body></html>`)

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.NotContains(t, html, "Loading...")

		tables, err := goquery.NewTableExtractor().ExtractTables(srv.URL, html, tablex.DefaultExtractOptions())
		require.NoError(t, err)
		require.Len(t, tables, 1)
		assert.Equal(t, "<td>Rendered</td>", tables[0].Rows[1].Cells[0].String())
	})

	t.Run("returns error for cancelled context", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, "<html></html>")
		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = fetcher.Fetch(ctx, srv.URL)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("times out on slow pages", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(2 * time.Second)
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(200 * time.Millisecond))
		require.NoError(t, err)
		defer fetcher.Close()

		_, err = fetcher.Fetch(context.Background(), srv.URL)
		assert.Error(t, err)
	})

	t.Run("keeps working across browser recycling", func(t *testing.T) {
		t.Parallel()

		srv := serve(t, "<html><body><p>ok</p></body></html>")
		fetcher, err := rod.NewFetcher(rod.WithMaxPages(2))
		require.NoError(t, err)
		defer fetcher.Close()

		first := fetcher.LauncherPID()
		for range 3 {
			html, err := fetcher.Fetch(context.Background(), srv.URL)
			require.NoError(t, err)
			assert.Contains(t, html, "ok")
		}
		assert.NotEqual(t, first, fetcher.LauncherPID())
	})
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	require.NotZero(t, fetcher.LauncherPID())

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())
	assert.Zero(t, fetcher.LauncherPID())
}
