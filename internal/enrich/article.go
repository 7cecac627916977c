package enrich

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/process/filters"
)

// summaryMaxChars bounds a summary for prompt use.
const summaryMaxChars = 800

// Summarizer extracts a short article summary for prompt context.
type Summarizer struct {
	fetcher *WebFetcher
	logger  *zerolog.Logger
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(fetcher *WebFetcher, logger *zerolog.Logger) *Summarizer {
	return &Summarizer{fetcher: fetcher, logger: logger}
}

// Summarize returns the first portion of the article's readable text, or ""
// when nothing useful can be extracted. Aggregator discussion pages are
// skipped outright: there is no article behind them.
func (s *Summarizer) Summarize(ctx context.Context, rawURL string) string {
	if rawURL == "" || filters.IsAggregatorURL(rawURL) {
		return ""
	}

	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Debug().Err(err).Str("url", rawURL).Msg("article fetch failed")

		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		// Reader-mode extraction found nothing; fall back to the page's
		// meta description.
		meta := extractMetaTags(body)

		return clip(firstNonEmpty(meta.OGDescription, meta.Description), summaryMaxChars)
	}

	return clip(strings.TrimSpace(article.TextContent), summaryMaxChars)
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max])
}

func firstNonEmpty(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}

	return ""
}
