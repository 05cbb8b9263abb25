package capture

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces sequential captures out. Batches are single-threaded on
// purpose — the fixed inter-request delay is what keeps the sources from
// escalating to rate limits or bot walls — and the per-host limiter caps
// the rate even when an operator runs overlapping batches by hand.
type Pacer struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	perHost  rate.Limit
}

// NewPacer creates a pacer capping each host at requestsPerSecond
func NewPacer(requestsPerSecond float64) *Pacer {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &Pacer{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
	}
}

// Wait blocks for rate-limit clearance on the URL's host, then sleeps the
// fixed delay. Returns early only when ctx is done.
func (p *Pacer) Wait(ctx context.Context, rawURL string, delay time.Duration) error {
	host := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		host = parsed.Host
	}

	if err := p.limiter(host).Wait(ctx); err != nil {
		return err
	}

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}

func (p *Pacer) limiter(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(p.perHost, 1)
	p.limiters[host] = l
	return l
}
