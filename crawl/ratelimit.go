package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/tablex"
	"golang.org/x/time/rate"
)

var _ tablex.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests to the same host. Each host gets its own
// token bucket of size one; host names are compared case-insensitively.
type DomainLimiter struct {
	limit    rate.Limit
	limiters sync.Map // host -> *rate.Limiter
}

// NewDomainLimiter returns a DomainLimiter allowing rps requests per second
// to each host. With rps <= 0 requests are never delayed.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{limit: rate.Limit(rps)}
}

// Wait blocks until a request to domain may start or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.limit <= 0 {
		return ctx.Err()
	}
	key := strings.ToLower(domain)
	v, ok := d.limiters.Load(key)
	if !ok {
		v, _ = d.limiters.LoadOrStore(key, rate.NewLimiter(d.limit, 1))
	}
	return v.(*rate.Limiter).Wait(ctx)
}
