// Package pipeline orchestrates one fetch-and-rank cycle: concurrent source
// fetches, per-source filtering, cross-source trending detection, dedup and
// quota allocation.
//
// The pipeline has no fatal error path. Every failure mode degrades to a
// smaller (possibly empty) output so the dashboard always has something to
// show.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/ingest/sources"
	"github.com/curatorhq/newsdesk/internal/platform/observability"
	"github.com/curatorhq/newsdesk/internal/process/filters"
	"github.com/curatorhq/newsdesk/internal/process/rank"
)

const (
	reasonBlockedKeyword = "blocked_keyword"
	reasonSelfPost       = "self_post"
)

// Pipeline runs the full cycle. Each invocation is a pure function of the
// current upstream feed states; no state persists between cycles.
type Pipeline struct {
	fetchers     []sources.Fetcher
	filter       *filters.Filter
	allocator    *rank.Allocator
	fetchTimeout time.Duration
	logger       *zerolog.Logger
}

// New creates a Pipeline.
func New(fetchers []sources.Fetcher, filter *filters.Filter, allocator *rank.Allocator, fetchTimeout time.Duration, logger *zerolog.Logger) *Pipeline {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}

	return &Pipeline{
		fetchers:     fetchers,
		filter:       filter,
		allocator:    allocator,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// FetchAll runs one cycle and returns the ranked output list, at most the
// configured target size. It never returns an error: failed sources
// contribute empty lists and a shortfall only shrinks the output.
func (p *Pipeline) FetchAll(ctx context.Context) []domain.Item {
	start := time.Now()

	pools := p.fetchConcurrently(ctx)

	total := 0

	for src, items := range pools {
		pools[src] = p.applyFilters(src, items)
		total += len(pools[src])
	}

	selected, shortfall := p.allocator.Select(pools)

	trendingCount := 0

	for _, it := range selected {
		if it.Trending {
			trendingCount++
		}
	}

	observability.PipelineDuration.Observe(time.Since(start).Seconds())
	observability.OutputSize.Set(float64(len(selected)))
	observability.TrendingClusters.Set(float64(trendingCount))

	if shortfall {
		observability.OutputShortfall.Inc()
	}

	p.logger.Info().
		Int("candidates", total).
		Int("selected", len(selected)).
		Int("trending", trendingCount).
		Dur("elapsed", time.Since(start)).
		Msg("cycle complete")

	return selected
}

// fetchConcurrently issues every source fetch at once and waits for all of
// them. A failure, timeout or malformed payload from one source resolves
// that source's contribution to an empty list; siblings are unaffected.
func (p *Pipeline) fetchConcurrently(ctx context.Context) map[domain.Source][]domain.Item {
	results := make([][]domain.Item, len(p.fetchers))

	var wg sync.WaitGroup

	for i, f := range p.fetchers {
		wg.Add(1)

		go func(i int, f sources.Fetcher) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
			defer cancel()

			items, err := f.Fetch(fetchCtx)
			if err != nil {
				observability.FetchErrors.WithLabelValues(string(f.Source())).Inc()
				p.logger.Warn().Err(err).Str("source", string(f.Source())).Msg("source fetch failed")

				return
			}

			observability.ItemsFetched.WithLabelValues(string(f.Source())).Add(float64(len(items)))

			results[i] = items
		}(i, f)
	}

	wg.Wait()

	pools := make(map[domain.Source][]domain.Item, len(p.fetchers))

	for i, f := range p.fetchers {
		pools[f.Source()] = append(pools[f.Source()], results[i]...)
	}

	return pools
}

func (p *Pipeline) applyFilters(src domain.Source, items []domain.Item) []domain.Item {
	out := items[:0]

	for _, it := range items {
		if filters.IsSelfPost(it) {
			observability.ItemsFiltered.WithLabelValues(string(src), reasonSelfPost).Inc()

			continue
		}

		if p.filter.IsBlocked(it.Title) {
			observability.ItemsFiltered.WithLabelValues(string(src), reasonBlockedKeyword).Inc()

			continue
		}

		out = append(out, it)
	}

	return out
}
