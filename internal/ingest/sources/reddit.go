package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/core/domain"
)

const redditBaseURL = "https://www.reddit.com"

// RedditFetcher pulls top-of-week listings from a set of subreddits via the
// public JSON API. Reddit exposes real engagement signals, so the engagement
// floors apply here. The week window already bounds recency.
type RedditFetcher struct {
	client     *http.Client
	subreddits []string
	opts       Options
	baseURL    string
	logger     *zerolog.Logger
}

// NewReddit creates the Reddit fetcher.
func NewReddit(client *http.Client, subreddits []string, opts Options, logger *zerolog.Logger) *RedditFetcher {
	return &RedditFetcher{
		client:     client,
		subreddits: subreddits,
		opts:       opts,
		baseURL:    redditBaseURL,
		logger:     logger,
	}
}

// Source implements Fetcher.
func (f *RedditFetcher) Source() domain.Source { return domain.SourceReddit }

// Fetch retrieves every configured subreddit concurrently. A failing
// subreddit contributes nothing; the others still count.
func (f *RedditFetcher) Fetch(ctx context.Context) ([]domain.Item, error) {
	results := make([][]domain.Item, len(f.subreddits))

	var wg sync.WaitGroup

	for i, sub := range f.subreddits {
		wg.Add(1)

		go func(i int, sub string) {
			defer wg.Done()

			items, err := f.fetchSubreddit(ctx, sub)
			if err != nil {
				f.logger.Warn().Err(err).Str("subreddit", sub).Msg("subreddit fetch failed")

				return
			}

			results[i] = items
		}(i, sub)
	}

	wg.Wait()

	var all []domain.Item
	for _, items := range results {
		all = append(all, items...)
	}

	return all, nil
}

func (f *RedditFetcher) fetchSubreddit(ctx context.Context, subreddit string) ([]domain.Item, error) {
	listingURL := fmt.Sprintf("%s/r/%s/top.json?t=week&limit=25", f.baseURL, subreddit)

	body, err := fetchBody(ctx, f.client, listingURL)
	if err != nil {
		return nil, err
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	return f.itemsFromListing(subreddit, listing), nil
}

func (f *RedditFetcher) itemsFromListing(subreddit string, listing redditListing) []domain.Item {
	items := make([]domain.Item, 0, f.opts.PostsPerSource)

	for _, child := range listing.Data.Children {
		if len(items) >= f.opts.PostsPerSource {
			break
		}

		post := child.Data

		if post.Stickied {
			continue
		}

		if post.Score < f.opts.MinScore || post.NumComments < f.opts.MinComments {
			continue
		}

		permalink := redditBaseURL + post.Permalink

		link := post.URL
		if link == "" || post.IsSelf {
			// No external article: fall back to the discussion page and
			// let the self-post filter drop it.
			link = permalink
		}

		it := domain.Item{
			ID:         "reddit-" + post.ID,
			Title:      post.Title,
			Group:      subreddit,
			Score:      post.Score,
			Comments:   post.NumComments,
			URL:        link,
			CreatedAt:  int64(post.CreatedUTC),
			Permalink:  permalink,
			SourceRank: len(items) + 1,
			Source:     domain.SourceReddit,
		}

		if !wellFormed(it) {
			continue
		}

		items = append(items, it)
	}

	return items
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
	IsSelf      bool    `json:"is_self"`
	Stickied    bool    `json:"stickied"`
}
