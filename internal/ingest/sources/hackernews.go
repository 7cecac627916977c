package sources

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/core/domain"
)

const hackerNewsGroup = "HackerNews"

// hnItemIDRegex pulls the numeric story id out of an item page link.
var hnItemIDRegex = regexp.MustCompile(`item\?id=(\d+)`)

// HackerNewsFetcher reads the hnrss firehose pre-filtered to a points floor.
// The feed carries no numeric engagement fields, so items get the assumed
// score; the points floor in the feed URL is the real quality gate.
type HackerNewsFetcher struct {
	client  *http.Client
	parser  *gofeed.Parser
	feedURL string
	opts    Options
	logger  *zerolog.Logger
}

// NewHackerNews creates the Hacker News fetcher.
func NewHackerNews(client *http.Client, feedURL string, opts Options, logger *zerolog.Logger) *HackerNewsFetcher {
	return &HackerNewsFetcher{
		client:  client,
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
		opts:    opts,
		logger:  logger,
	}
}

// Source implements Fetcher.
func (f *HackerNewsFetcher) Source() domain.Source { return domain.SourceHackerNews }

// Fetch retrieves and normalizes the feed.
func (f *HackerNewsFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
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

func (f *HackerNewsFetcher) itemsFromFeed(feed *gofeed.Feed) []domain.Item {
	items := make([]domain.Item, 0, f.opts.PostsPerSource)

	for _, entry := range feed.Items {
		if len(items) >= f.opts.PostsPerSource {
			break
		}

		discussion := entry.GUID
		if discussion == "" {
			discussion = entry.Custom["comments"]
		}

		storyID := ""
		if m := hnItemIDRegex.FindStringSubmatch(discussion); m != nil {
			storyID = m[1]
		} else {
			storyID = uuid.NewString()
		}

		var createdAt int64
		if entry.PublishedParsed != nil {
			createdAt = entry.PublishedParsed.Unix()
		}

		permalink := discussion
		if permalink == "" {
			permalink = "https://news.ycombinator.com/item?id=" + storyID
		}

		it := domain.Item{
			ID:         "hn-" + storyID,
			Title:      entry.Title,
			Group:      hackerNewsGroup,
			Score:      f.opts.AssumedScore,
			URL:        entry.Link,
			CreatedAt:  createdAt,
			Permalink:  permalink,
			SourceRank: len(items) + 1,
			Source:     domain.SourceHackerNews,
		}

		if !wellFormed(it) {
			continue
		}

		items = append(items, it)
	}

	return items
}
