// Package sources implements one fetcher per upstream feed type.
//
// Every fetcher retrieves and normalizes raw entries into domain.Item,
// applying the source-appropriate recency window, engagement floor and
// per-source cap. A failing source returns an error and the pipeline treats
// its contribution as empty; one bad feed never aborts a cycle.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/curatorhq/newsdesk/internal/core/domain"
)

const (
	maxBodySize = 10 * 1024 * 1024

	// browserUserAgent keeps feed endpoints that reject bot agents happy.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	headerUserAgent = "User-Agent"
	headerAccept    = "Accept"
	acceptFeeds     = "application/rss+xml, application/xml, text/xml, */*"
)

var errHTTPStatus = errors.New("unexpected HTTP status")

// Fetcher retrieves one source's items for a cycle.
type Fetcher interface {
	Source() domain.Source
	Fetch(ctx context.Context) ([]domain.Item, error)
}

// Options carries the per-source knobs shared by all fetchers.
type Options struct {
	// PostsPerSource caps how many items a source contributes, preserving
	// the source's native ordering.
	PostsPerSource int

	// RecencyWindow rejects items published before now minus the window.
	// Ignored by sources whose feed already pre-filters by recency.
	RecencyWindow time.Duration

	// MinScore and MinComments are engagement floors, applied only where
	// the source exposes real signals.
	MinScore    int
	MinComments int

	// AssumedScore substitutes for sources that cannot supply engagement
	// signals, keeping their items comparable downstream.
	AssumedScore int
}

// NewHTTPClient builds the outbound client shared by fetchers.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &http.Client{Timeout: timeout}
}

// fetchBody performs a bounded GET with feed-friendly headers.
func fetchBody(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(headerUserAgent, browserUserAgent)
	req.Header.Set(headerAccept, acceptFeeds)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", errHTTPStatus, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// wellFormed reports whether an extracted item carries the minimum fields to
// enter the pipeline. Malformed items are dropped at the fetcher boundary.
func wellFormed(it domain.Item) bool {
	return it.Title != "" && it.URL != ""
}
