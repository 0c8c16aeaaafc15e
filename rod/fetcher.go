package rod

import (
	"context"
	"time"

	"github.com/fwojciec/tablex"
	"github.com/go-rod/rod/lib/proto"
)

var _ tablex.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher renders pages in headless Chrome so that tables built by scripts
// are present in the returned HTML. It is safe for concurrent use.
type Fetcher struct {
	pool     *browserPool
	timeout  time.Duration
	maxPages int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single page render.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithMaxPages sets how many pages a browser renders before it is replaced.
// Zero disables recycling.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) { f.maxPages = n }
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(f)
	}
	pool, err := newBrowserPool(f.maxPages)
	if err != nil {
		return nil, err
	}
	f.pool = pool
	return f, nil
}

// Fetch navigates to url, waits for the load event and returns the
// rendered document.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.pool.acquire().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	defer f.pool.done()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// Close shuts the browser down. It is safe to call more than once.
func (f *Fetcher) Close() error {
	return f.pool.close()
}

// LauncherPID returns the process ID of the running browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.pool.pid()
}
