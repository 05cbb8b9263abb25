package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

// RobotsChecker checks robots.txt per origin, with a TTL cache so a batch
// over many clinics on one host fetches robots.txt once.
type RobotsChecker struct {
	cache      *gocache.Cache
	httpClient *http.Client
	userAgent  string
}

// NewRobotsChecker creates a checker with the given fetch timeout and cache TTL
func NewRobotsChecker(userAgent string, timeout, cacheTTL time.Duration) *RobotsChecker {
	return &RobotsChecker{
		cache: gocache.New(cacheTTL, 2*cacheTTL),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Check reports whether rawURL may be fetched according to the origin's
// robots.txt. The policy is fail-open: when robots.txt cannot be fetched or
// parsed the result is allowed=true, but the error is returned so callers
// can record that the signal came from a failed check rather than an
// explicit allow.
func (r *RobotsChecker) Check(ctx context.Context, rawURL string) (allowed bool, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}

	data, err := r.robotsData(ctx, parsed)
	if err != nil {
		return true, err
	}
	return data.TestAgent(parsed.Path, r.userAgent), nil
}

func (r *RobotsChecker) robotsData(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	if cached, found := r.cache.Get(target.Host); found {
		return cached.(*robotstxt.RobotsData), nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", target.Scheme, target.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.cache.SetDefault(target.Host, data)
	return data, nil
}
