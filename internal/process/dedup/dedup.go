// Package dedup collapses same-URL and same-topic items into a single
// representative per story.
package dedup

import (
	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/process/topics"
)

// replaceScoreRatio is how much higher a candidate's score must be to
// displace a retained incumbent of the same topic.
const replaceScoreRatio = 1.5

// ScoreFunc computes the engagement-derived score used for retention
// decisions.
type ScoreFunc func(domain.Item) int

type kept struct {
	fingerprint string
	item        domain.Item
}

// Deduplicate returns one item per topic cluster. Exact URL repeats are
// skipped before the fuzzy topic scan. On a topic match the candidate
// displaces the incumbent only if the candidate is trending and the incumbent
// is not, or the candidate's score exceeds the incumbent's by more than 50%.
//
// The tie-break is asymmetric: earlier items are favoured as incumbents.
func Deduplicate(items []domain.Item, score ScoreFunc, logger *zerolog.Logger) []domain.Item {
	retained := make([]kept, 0, len(items))
	seenURLs := make(map[string]struct{}, len(items))

	for _, it := range items {
		if _, dup := seenURLs[it.URL]; dup {
			continue
		}

		matched := false

		for i := range retained {
			if !topics.SameTopic(it.Title, retained[i].fingerprint) {
				continue
			}

			matched = true

			incumbent := retained[i].item

			if shouldReplace(it, incumbent, score) {
				retained[i].item = it
				seenURLs[it.URL] = struct{}{}

				if logger != nil {
					logger.Debug().
						Str("kept_id", it.ID).
						Str("dropped_id", incumbent.ID).
						Msg("duplicate topic, candidate replaced incumbent")
				}
			} else if logger != nil {
				logger.Debug().
					Str("kept_id", incumbent.ID).
					Str("dropped_id", it.ID).
					Msg("duplicate topic, incumbent retained")
			}

			break
		}

		if !matched {
			retained = append(retained, kept{
				fingerprint: topics.Fingerprint(it.Title),
				item:        it,
			})
			seenURLs[it.URL] = struct{}{}
		}
	}

	out := make([]domain.Item, 0, len(retained))
	for _, k := range retained {
		out = append(out, k.item)
	}

	return out
}

func shouldReplace(candidate, incumbent domain.Item, score ScoreFunc) bool {
	if candidate.Trending && !incumbent.Trending {
		return true
	}

	return float64(score(candidate)) > float64(score(incumbent))*replaceScoreRatio
}
