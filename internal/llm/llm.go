// Package llm generates tone-conditioned social copy for curated stories.
//
// The OpenAI-backed client is best-effort: any backend failure, rate limit
// or unparseable response degrades to a deterministic templated fallback so
// the dashboard never blocks on generation.
package llm

import (
	"context"

	"github.com/curatorhq/newsdesk/internal/core/domain"
)

// variantCount is how many tweet variants a single request produces.
const variantCount = 3

// Request carries everything the generator needs for one story.
type Request struct {
	Title          string
	Tone           domain.Tone
	ArticleSummary string
	CompanyContext string
}

// Generator produces social copy variants.
type Generator interface {
	// GenerateTweets returns up to three single-tweet variants.
	GenerateTweets(ctx context.Context, req Request) ([]domain.GeneratedPost, error)

	// GenerateThread returns the tweets of one multi-part thread.
	GenerateThread(ctx context.Context, req Request) ([]domain.GeneratedPost, error)
}
