// Package filters implements headline-level content filtering.
//
// Three concerns live here:
//   - a keyword blocklist that purges off-topic categories (politics,
//     speculative assets, crime, celebrity news) with one explicit override
//     for regulatory tech coverage
//   - a boost list that awards a fixed ranking bonus to headlines naming
//     high-interest companies and products
//   - self-post exclusion for items whose resolved URL never leaves the
//     aggregator's own domain
package filters

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"github.com/curatorhq/newsdesk/internal/core/domain"
)

// BoostBonus is the fixed score bonus for headlines containing a boost keyword.
const BoostBonus = 50

// blockedKeywords covers the off-topic categories. Matching is
// case-insensitive substring over the folded title.
var blockedKeywords = []string{
	// politics
	"trump", "biden", "election", "congress", "senate", "white house",
	"democrat", "republican", "parliament",
	// speculative assets
	"bitcoin", "crypto", "ethereum", "nft", "dogecoin", "memecoin", "altcoin",
	// crime and legal
	"arrested", "lawsuit", "indicted", "sentenced", "court", "convicted",
	"murder", "shooting",
	// celebrity and entertainment
	"kardashian", "taylor swift", "celebrity", "box office", "movie trailer",
	"red carpet",
}

// boostKeywords are the high-interest names worth a ranking bonus. Boost
// never affects inclusion, only ordering.
var boostKeywords = []string{
	"openai", "chatgpt", "gpt-", "anthropic", "claude", "gemini", "deepmind",
	"google", "apple", "microsoft", "meta", "amazon", "nvidia", "tesla",
	"spacex", "intel", "samsung",
}

// aggregatorHosts are domains that host discussions rather than articles.
// An item whose URL stays on one of these has no external story to link.
var aggregatorHosts = []string{
	"reddit.com", "redd.it", "news.ycombinator.com", "news.google.com",
}

// Filter decides which headlines are off-topic and which deserve a boost.
type Filter struct {
	blocked []string
	boosted []string
	caser   cases.Caser
}

// New creates a Filter. Extra keywords extend the built-in lists.
func New(extraBlocked, extraBoosted []string) *Filter {
	return &Filter{
		blocked: append(append([]string{}, blockedKeywords...), extraBlocked...),
		boosted: append(append([]string{}, boostKeywords...), extraBoosted...),
		caser:   cases.Fold(),
	}
}

// IsBlocked reports whether the title hits the blocklist. A title containing
// "court" survives when it also contains "antitrust": antitrust rulings are
// legitimate tech news, not courtroom noise.
func (f *Filter) IsBlocked(title string) bool {
	lower := f.caser.String(title)

	for _, kw := range f.blocked {
		if !strings.Contains(lower, f.caser.String(kw)) {
			continue
		}

		if kw == "court" && strings.Contains(lower, "antitrust") {
			continue
		}

		return true
	}

	return false
}

// BoostScore returns the fixed bonus when the title names a boost keyword,
// zero otherwise.
func (f *Filter) BoostScore(title string) int {
	lower := f.caser.String(title)

	for _, kw := range f.boosted {
		if strings.Contains(lower, f.caser.String(kw)) {
			return BoostBonus
		}
	}

	return 0
}

// IsSelfPost reports whether the item's resolved URL never leaves its
// aggregator: either it equals the discussion permalink or it still points
// at an aggregator host. Publisher feeds legitimately use the article page
// as both URL and permalink, so the permalink rule only applies to
// aggregator-native sources.
func IsSelfPost(it domain.Item) bool {
	if it.URL == "" {
		return true
	}

	if isAggregatorSource(it.Source) && it.Permalink != "" && it.URL == it.Permalink {
		return true
	}

	return isAggregatorURL(it.URL)
}

func isAggregatorSource(s domain.Source) bool {
	switch s {
	case domain.SourceReddit, domain.SourceHackerNews, domain.SourceGoogleNews:
		return true
	}

	return false
}

func isAggregatorURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())

	for _, agg := range aggregatorHosts {
		if host == agg || strings.HasSuffix(host, "."+agg) {
			return true
		}
	}

	return false
}

// IsAggregatorURL reports whether the URL points at a discussion aggregator
// rather than an article. Exposed for the enrichment helpers which skip
// aggregator pages when scraping summaries and images.
func IsAggregatorURL(rawURL string) bool {
	return isAggregatorURL(rawURL)
}
