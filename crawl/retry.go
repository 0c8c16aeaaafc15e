package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/tablex"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying after each delay in turn. Errors
// that a retry cannot fix (ENOTFOUND, EINVALID) are returned at once.
// onRetry, if set, is called before each retry with the attempt about to
// start and the error that caused it.
func FetchWithRetry(ctx context.Context, fetcher tablex.Fetcher, url string, delays []time.Duration, onRetry func(attempt int, err error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		html, err := fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt == len(delays) || !retryable(err) {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", lastErr
}

func retryable(err error) bool {
	switch tablex.ErrorCode(err) {
	case tablex.ENOTFOUND, tablex.EINVALID:
		return false
	}
	return true
}
