package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/platform/htmlutils"
)

const googleNewsGroup = "GoogleNews"

// googleNewsHosts are the wrapper domains Google News links through.
var googleNewsHosts = []string{"news.google.com", "google.com"}

// GoogleNewsFetcher reads a Google News search RSS feed. Entry links point at
// the aggregator's redirect pages, so the genuine article URL is unwrapped
// from the first external hyperlink in the content blob. Items with no
// resolvable external link keep the wrapped link and die in the self-post
// filter downstream.
type GoogleNewsFetcher struct {
	client  *http.Client
	parser  *gofeed.Parser
	feedURL string
	opts    Options
	logger  *zerolog.Logger
	now     func() time.Time
}

// NewGoogleNews creates the Google News fetcher.
func NewGoogleNews(client *http.Client, feedURL string, opts Options, logger *zerolog.Logger) *GoogleNewsFetcher {
	return &GoogleNewsFetcher{
		client:  client,
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Source implements Fetcher.
func (f *GoogleNewsFetcher) Source() domain.Source { return domain.SourceGoogleNews }

// Fetch retrieves and normalizes the feed.
func (f *GoogleNewsFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	body, err := fetchBody(ctx, f.client, f.feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := f.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return f.itemsFromFeed(feed), nil
}

func (f *GoogleNewsFetcher) itemsFromFeed(feed *gofeed.Feed) []domain.Item {
	cutoff := f.now().Add(-f.opts.RecencyWindow)
	items := make([]domain.Item, 0, f.opts.PostsPerSource)

	for _, entry := range feed.Items {
		if len(items) >= f.opts.PostsPerSource {
			break
		}

		published := time.Time{}
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		}

		if f.opts.RecencyWindow > 0 && !published.IsZero() && published.Before(cutoff) {
			continue
		}

		link := unwrapLink(entry)

		id := entry.GUID
		if id == "" {
			id = uuid.NewString()
		}

		it := domain.Item{
			ID:         "gn-" + id,
			Title:      htmlutils.StripTags(entry.Title),
			Group:      googleNewsGroup,
			Score:      f.opts.AssumedScore,
			URL:        link,
			CreatedAt:  published.Unix(),
			Permalink:  entry.Link,
			SourceRank: len(items) + 1,
			Source:     domain.SourceGoogleNews,
		}

		if published.IsZero() {
			it.CreatedAt = 0
		}

		if !wellFormed(it) {
			continue
		}

		items = append(items, it)
	}

	return items
}

// unwrapLink resolves the genuine article URL for a wrapped entry: the first
// external hyperlink in the content or description blob, else the entry's
// own (wrapped) link.
func unwrapLink(entry *gofeed.Item) string {
	for _, blob := range []string{entry.Content, entry.Description} {
		if href := htmlutils.FirstExternalHref(blob, googleNewsHosts...); href != "" {
			return href
		}
	}

	return entry.Link
}
