package rank

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/process/trending"
)

var allSources = []domain.Source{
	domain.SourceReddit,
	domain.SourceHackerNews,
	domain.SourceTechCrunch,
	domain.SourceTheVerge,
	domain.SourceArsTechnica,
	domain.SourceGoogleNews,
}

func newAllocator(quota, target int) *Allocator {
	nop := zerolog.Nop()

	return New(Config{
		Sources:        allSources,
		QuotaPerSource: quota,
		TotalTarget:    target,
	}, func(string) int { return 0 }, trending.New(&nop), &nop)
}

// uniqueItems builds n items for a source with unrelated titles.
func uniqueItems(src domain.Source, n, baseScore int) []domain.Item {
	items := make([]domain.Item, 0, n)

	for i := 0; i < n; i++ {
		items = append(items, domain.Item{
			ID:    fmt.Sprintf("%s-%d", src, i),
			Title: fmt.Sprintf("fresh story about gadget%s%d widget%s%d variant%s%d", src, i, src, i, src, i),
			URL:   fmt.Sprintf("https://example.com/%s/%d", src, i),
			Score: baseScore - i,
			Group: string(src),

			Source: src,
		})
	}

	return items
}

func TestSelect_FullQuotaYieldsExactTarget(t *testing.T) {
	alloc := newAllocator(5, 30)

	pools := make(map[domain.Source][]domain.Item)
	for _, src := range allSources {
		pools[src] = uniqueItems(src, 5, 100)
	}

	out, shortfall := alloc.Select(pools)

	assert.False(t, shortfall)
	require.Len(t, out, 30)

	perSource := make(map[domain.Source]int)
	for _, it := range out {
		perSource[it.Source]++
	}

	for _, src := range allSources {
		assert.Equal(t, 5, perSource[src], "source %s must fill exactly its quota", src)
	}
}

func TestSelect_QuotaCapsDominantSource(t *testing.T) {
	alloc := newAllocator(5, 30)

	pools := make(map[domain.Source][]domain.Item)
	// One source with far more, and far higher scored, items than the rest.
	pools[domain.SourceReddit] = uniqueItems(domain.SourceReddit, 20, 10000)

	for _, src := range allSources[1:] {
		pools[src] = uniqueItems(src, 5, 100)
	}

	out, _ := alloc.Select(pools)

	perSource := make(map[domain.Source]int)
	for _, it := range out {
		perSource[it.Source]++
	}

	assert.Equal(t, 5, perSource[domain.SourceReddit], "quota must hold even for the richest source")
}

func TestSelect_BackfillRecoversDedupLosses(t *testing.T) {
	alloc := newAllocator(5, 30)

	pools := make(map[domain.Source][]domain.Item)

	// Ten extra unique candidates beyond quota in the reddit pool.
	pools[domain.SourceReddit] = uniqueItems(domain.SourceReddit, 15, 100)

	for _, src := range allSources[1:] {
		pools[src] = uniqueItems(src, 5, 100)
	}

	// Make hackernews items duplicate reddit's quota picks so dedup
	// shrinks the union below target.
	for i := range pools[domain.SourceHackerNews] {
		pools[domain.SourceHackerNews][i].Title = pools[domain.SourceReddit][i].Title
	}

	out, shortfall := alloc.Select(pools)

	assert.False(t, shortfall)
	assert.Len(t, out, 30, "backfill must restore the target size")
}

func TestSelect_ShortfallReportedNotPadded(t *testing.T) {
	alloc := newAllocator(5, 30)

	pools := map[domain.Source][]domain.Item{
		domain.SourceReddit: uniqueItems(domain.SourceReddit, 3, 100),
	}

	out, shortfall := alloc.Select(pools)

	assert.True(t, shortfall)
	assert.Len(t, out, 3)
}

func TestSelect_TrendingFirstOrdering(t *testing.T) {
	alloc := newAllocator(5, 30)

	pools := make(map[domain.Source][]domain.Item)
	for _, src := range allSources {
		pools[src] = uniqueItems(src, 5, 100)
	}

	// The same story on three sources: trending with count 3.
	shared := "Shared breaking story about quantum networking"
	pools[domain.SourceReddit][4].Title = shared
	pools[domain.SourceHackerNews][4].Title = shared
	pools[domain.SourceTechCrunch][4].Title = shared

	out, _ := alloc.Select(pools)

	require.NotEmpty(t, out)
	assert.True(t, out[0].Trending, "trending items must lead the output")
	assert.Equal(t, 3, out[0].TrendingCount)

	seenNonTrending := false

	for _, it := range out {
		if !it.Trending {
			seenNonTrending = true
		} else {
			assert.False(t, seenNonTrending, "no trending item may follow a non-trending one")
		}
	}
}

func TestSelect_CompositeScoreOrdersWithinTier(t *testing.T) {
	nop := zerolog.Nop()
	alloc := New(Config{
		Sources:        []domain.Source{domain.SourceReddit},
		QuotaPerSource: 3,
		TotalTarget:    3,
	}, func(title string) int {
		if title == "boosted headline about something" {
			return 50
		}

		return 0
	}, trending.New(&nop), &nop)

	pools := map[domain.Source][]domain.Item{
		domain.SourceReddit: {
			{ID: "low", Title: "quiet headline about nothing", URL: "https://example.com/1", Score: 10, Source: domain.SourceReddit},
			{ID: "comments", Title: "discussed headline about stuff", URL: "https://example.com/2", Score: 10, Comments: 30, Source: domain.SourceReddit},
			{ID: "boosted", Title: "boosted headline about something", URL: "https://example.com/3", Score: 25, Source: domain.SourceReddit},
		},
	}

	out, _ := alloc.Select(pools)

	require.Len(t, out, 3)
	assert.Equal(t, "boosted", out[0].ID)  // 25 + 50
	assert.Equal(t, "comments", out[1].ID) // 10 + 60
	assert.Equal(t, "low", out[2].ID)
}

func TestSelect_FewerSourcesStillFills(t *testing.T) {
	// Source-count change without retuning the quota: output undershoots
	// the stale target and is reported as a shortfall.
	nop := zerolog.Nop()
	alloc := New(Config{
		Sources:        []domain.Source{domain.SourceReddit, domain.SourceHackerNews},
		QuotaPerSource: 5,
		TotalTarget:    30,
	}, func(string) int { return 0 }, trending.New(&nop), &nop)

	pools := map[domain.Source][]domain.Item{
		domain.SourceReddit:     uniqueItems(domain.SourceReddit, 5, 100),
		domain.SourceHackerNews: uniqueItems(domain.SourceHackerNews, 5, 100),
	}

	out, shortfall := alloc.Select(pools)

	assert.True(t, shortfall)
	assert.Len(t, out, 10)
}
