// Package app wires the application together and exposes its run modes:
//
//   - Serve mode: HTTP server hosting the dashboard API, with an optional
//     periodic refresh worker
//   - Fetch mode: one fetch-and-rank cycle printed to stdout, for cron use
//     and manual inspection
package app

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/enrich"
	"github.com/curatorhq/newsdesk/internal/httpapi"
	"github.com/curatorhq/newsdesk/internal/ingest/sources"
	"github.com/curatorhq/newsdesk/internal/llm"
	"github.com/curatorhq/newsdesk/internal/platform/config"
	"github.com/curatorhq/newsdesk/internal/platform/observability"
	"github.com/curatorhq/newsdesk/internal/platform/worker"
	"github.com/curatorhq/newsdesk/internal/process/filters"
	"github.com/curatorhq/newsdesk/internal/process/pipeline"
	"github.com/curatorhq/newsdesk/internal/process/rank"
	"github.com/curatorhq/newsdesk/internal/process/trending"
	"github.com/curatorhq/newsdesk/internal/store"
)

// App holds the wired application.
type App struct {
	cfg      *config.Config
	logger   *zerolog.Logger
	pipeline *pipeline.Pipeline
	store    store.Store
	api      *httpapi.Handler
}

// New wires all dependencies from configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	if from, adjusted := cfg.TargetAdjusted(); adjusted {
		logger.Warn().
			Int("configured", from).
			Int("effective", cfg.TotalTarget).
			Msg("total target does not match quota times source count, adjusted")
	}

	client := sources.NewHTTPClient(cfg.FetchTimeout)

	contentFilter := filters.New(cfg.BlockedKeywords, cfg.BoostKeywords)

	fetchers := buildFetchers(cfg, client, logger)

	detector := trending.New(logger)

	allocator := rank.New(rank.Config{
		Sources:        cfg.SourceList(),
		QuotaPerSource: cfg.QuotaPerSource,
		TotalTarget:    cfg.TotalTarget,
	}, contentFilter.BoostScore, detector, logger)

	pipe := pipeline.New(fetchers, contentFilter, allocator, cfg.FetchTimeout, logger)

	postStore := store.New(cfg.StoreRetention, logger)

	var generator llm.Generator
	if cfg.LLMAPIKey != "" {
		generator = llm.NewOpenAI(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMRateRPS, logger)
	} else {
		logger.Warn().Msg("no LLM API key configured, serving templated fallbacks only")

		generator = llm.NewFallbackOnly(logger)
	}

	webFetcher := enrich.NewWebFetcher(cfg.WebFetchRPS, cfg.WebFetchTimeout)
	summarizer := enrich.NewSummarizer(webFetcher, logger)
	images := enrich.NewImageExtractor(webFetcher, logger)

	api := httpapi.New(postStore, pipe, generator, summarizer, images, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipe,
		store:    postStore,
		api:      api,
	}
}

// RunServe hosts the API server and, when configured, the periodic refresh
// worker. Blocks until the context is cancelled.
func (a *App) RunServe(ctx context.Context) error {
	if a.cfg.RefreshInterval > 0 {
		go func() {
			_ = worker.Loop(ctx, worker.Config{
				Name:       "refresh",
				Interval:   a.cfg.RefreshInterval,
				RunOnStart: true,
				Logger:     a.logger,
				Run: func(ctx context.Context) error {
					a.store.Save(a.pipeline.FetchAll(ctx))

					return nil
				},
			})
		}()
	}

	srv := observability.NewServer(a.cfg.Port, a.api, a.logger)

	return srv.Start(ctx)
}

// RunFetchOnce runs a single cycle and writes the ranked items to stdout as
// JSON.
func (a *App) RunFetchOnce(ctx context.Context) error {
	items := a.pipeline.FetchAll(ctx)
	a.store.Save(items)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(items)
}

func buildFetchers(cfg *config.Config, client *http.Client, logger *zerolog.Logger) []sources.Fetcher {
	recency := cfg.RecencyWindow()

	fetchers := make([]sources.Fetcher, 0, len(cfg.Sources))

	for _, src := range cfg.SourceList() {
		switch src {
		case domain.SourceReddit:
			fetchers = append(fetchers, sources.NewReddit(client, cfg.Subreddits, sources.Options{
				PostsPerSource: cfg.PostsPerSource,
				MinScore:       cfg.MinEngagement,
				MinComments:    cfg.MinComments,
			}, logger))
		case domain.SourceHackerNews:
			fetchers = append(fetchers, sources.NewHackerNews(client, cfg.HackerNewsFeedURL, sources.Options{
				PostsPerSource: cfg.PostsPerSource,
				AssumedScore:   cfg.AssumedScore,
			}, logger))
		case domain.SourceTechCrunch:
			fetchers = append(fetchers, sources.NewPublisher(client, src, "TechCrunch", cfg.TechCrunchFeedURL, sources.Options{
				PostsPerSource: cfg.PostsPerSource,
				RecencyWindow:  recency,
				AssumedScore:   cfg.AssumedScore,
			}, logger))
		case domain.SourceTheVerge:
			fetchers = append(fetchers, sources.NewPublisher(client, src, "TheVerge", cfg.TheVergeFeedURL, sources.Options{
				PostsPerSource: cfg.PostsPerSource,
				RecencyWindow:  recency,
				AssumedScore:   cfg.AssumedScore,
			}, logger))
		case domain.SourceArsTechnica:
			fetchers = append(fetchers, sources.NewPublisher(client, src, "ArsTechnica", cfg.ArsFeedURL, sources.Options{
				PostsPerSource: cfg.PostsPerSource,
				RecencyWindow:  recency,
				AssumedScore:   cfg.AssumedScore,
			}, logger))
		case domain.SourceGoogleNews:
			fetchers = append(fetchers, sources.NewGoogleNews(client, cfg.GoogleNewsFeedURL, sources.Options{
				PostsPerSource: cfg.PostsPerSource,
				RecencyWindow:  recency,
				AssumedScore:   cfg.AssumedScore,
			}, logger))
		}
	}

	return fetchers
}
