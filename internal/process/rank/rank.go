// Package rank selects the final bounded output list: a per-source quota for
// diversity, cross-source trending and dedup over the quota union, backfill
// from post-quota pools to recover dedup losses, and a trending-first final
// ordering.
package rank

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/process/dedup"
	"github.com/curatorhq/newsdesk/internal/process/topics"
	"github.com/curatorhq/newsdesk/internal/process/trending"
)

// commentWeight doubles the value of a comment relative to a score point in
// the composite score.
const commentWeight = 2

// Boost computes the headline ranking bonus. Injected so the allocator does
// not own the keyword lists.
type Boost func(title string) int

// Config bounds the allocation.
type Config struct {
	// Sources fixes the allocation order across source pools.
	Sources []domain.Source

	// QuotaPerSource is the per-source cap applied before dedup.
	QuotaPerSource int

	// TotalTarget is the exact output size when enough candidates exist.
	TotalTarget int
}

// Allocator produces the final ranked list.
type Allocator struct {
	cfg      Config
	boost    Boost
	detector *trending.Detector
	logger   *zerolog.Logger
}

// New creates an Allocator.
func New(cfg Config, boost Boost, detector *trending.Detector, logger *zerolog.Logger) *Allocator {
	return &Allocator{cfg: cfg, boost: boost, detector: detector, logger: logger}
}

// Composite is the ranking score: engagement plus double-weighted comments
// plus the headline boost.
func (a *Allocator) Composite(it domain.Item) int {
	return it.Score + it.Comments*commentWeight + a.boost(it.Title)
}

// Select turns per-source candidate pools into the final output list.
// The result is at most TotalTarget items; a shortfall is reported, never
// padded.
func (a *Allocator) Select(pools map[domain.Source][]domain.Item) (items []domain.Item, shortfall bool) {
	quotaUnion := make([]domain.Item, 0, a.cfg.QuotaPerSource*len(a.cfg.Sources))
	backfillPool := make([]domain.Item, 0)

	for _, src := range a.cfg.Sources {
		pool := append([]domain.Item{}, pools[src]...)

		sort.SliceStable(pool, func(i, j int) bool {
			return a.Composite(pool[i]) > a.Composite(pool[j])
		})

		cut := a.cfg.QuotaPerSource
		if cut > len(pool) {
			cut = len(pool)
		}

		quotaUnion = append(quotaUnion, pool[:cut]...)
		backfillPool = append(backfillPool, pool[cut:]...)
	}

	stamped := a.detector.Annotate(quotaUnion)
	selected := dedup.Deduplicate(stamped, a.Composite, a.logger)

	if len(selected) < a.cfg.TotalTarget {
		selected = a.backfill(selected, backfillPool)
	}

	a.order(selected)

	if len(selected) > a.cfg.TotalTarget {
		selected = selected[:a.cfg.TotalTarget]
	}

	if len(selected) < a.cfg.TotalTarget {
		shortfall = true

		if a.logger != nil {
			a.logger.Warn().
				Int("selected", len(selected)).
				Int("target", a.cfg.TotalTarget).
				Msg("output below target after backfill")
		}
	}

	return selected, shortfall
}

// backfill tops up a dedup shortfall from the post-quota leftovers, globally
// ordered by composite score, skipping anything that collides with an
// already selected topic or URL.
func (a *Allocator) backfill(selected, pool []domain.Item) []domain.Item {
	sort.SliceStable(pool, func(i, j int) bool {
		return a.Composite(pool[i]) > a.Composite(pool[j])
	})

	usedURLs := make(map[string]struct{}, len(selected))
	for _, it := range selected {
		usedURLs[it.URL] = struct{}{}
	}

	for _, candidate := range pool {
		if len(selected) >= a.cfg.TotalTarget {
			break
		}

		if _, dup := usedURLs[candidate.URL]; dup {
			continue
		}

		collision := lo.ContainsBy(selected, func(it domain.Item) bool {
			return topics.SameTopic(candidate.Title, it.Title)
		})
		if collision {
			continue
		}

		selected = append(selected, candidate)
		usedURLs[candidate.URL] = struct{}{}
	}

	return selected
}

// order sorts trending items first, ties broken by descending trending
// count, then by descending composite score.
func (a *Allocator) order(items []domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Trending != items[j].Trending {
			return items[i].Trending
		}

		if items[i].TrendingCount != items[j].TrendingCount {
			return items[i].TrendingCount > items[j].TrendingCount
		}

		return a.Composite(items[i]) > a.Composite(items[j])
	})
}
