// Package enrich provides best-effort secondary lookups for curated items:
// article summaries, social-card images and company background context. All
// of it is optional; failures return empty results, never errors that block
// the pipeline.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxBodySize        = 5 * 1024 * 1024
	maxRedirects       = 5
	perDomainRPS       = 1
	perDomainBurst     = 2
	globalLimiterBurst = 5

	fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// WebFetcher performs bounded, rate-limited article page fetches.
type WebFetcher struct {
	client        *http.Client
	globalLimiter *rate.Limiter

	mu             sync.RWMutex
	domainLimiters map[string]*rate.Limiter
}

// NewWebFetcher creates a fetcher with a global RPS bound plus a per-domain
// limit so one slow publisher cannot absorb the whole budget.
func NewWebFetcher(rps float64, timeout time.Duration) *WebFetcher {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	if rps <= 0 {
		rps = 2
	}

	return &WebFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}

				return nil
			},
		},
		globalLimiter:  rate.NewLimiter(rate.Limit(rps), globalLimiterBurst),
		domainLimiters: make(map[string]*rate.Limiter),
	}
}

// Fetch retrieves the page at rawURL, honouring global and per-domain rate
// limits.
func (f *WebFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.globalLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	if err := f.domainLimiter(extractDomain(rawURL)).Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

func (f *WebFetcher) domainLimiter(domain string) *rate.Limiter {
	f.mu.RLock()
	limiter, exists := f.domainLimiters[domain]
	f.mu.RUnlock()

	if exists {
		return limiter
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if limiter, exists := f.domainLimiters[domain]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(perDomainRPS, perDomainBurst)
	f.domainLimiters[domain] = limiter

	return limiter
}

func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(u.Host)
}
