// Package trending groups items into topic clusters and marks stories
// observed on two or more distinct sources in the same cycle.
package trending

import (
	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/process/topics"
)

// group is a topic cluster keyed by the fingerprint of its first member.
type group struct {
	key     string
	members []domain.Item
}

// Detector clusters items by topic across sources.
type Detector struct {
	logger *zerolog.Logger
}

// New creates a trending Detector.
func New(logger *zerolog.Logger) *Detector {
	return &Detector{logger: logger}
}

// Annotate returns a copy of items with trending stories stamped. Grouping
// runs in two passes: the first builds clusters while suppressing repeat
// posts from the same source and group label, so one subreddit spamming a
// story cannot inflate its cross-source count; the second re-scans every
// original item against the trending cluster keys, so items that were not a
// cluster's representative still carry the stamp.
func (d *Detector) Annotate(items []domain.Item) []domain.Item {
	groups := make([]*group, 0, len(items))

	for _, it := range items {
		found := false

		for _, g := range groups {
			if !topics.SameTopic(it.Title, g.members[0].Title) {
				continue
			}

			if !g.hasSourceGroup(it.Source, it.Group) {
				g.members = append(g.members, it)
			}

			found = true

			break
		}

		if !found {
			groups = append(groups, &group{
				key:     topics.Fingerprint(it.Title),
				members: []domain.Item{it},
			})
		}
	}

	type cluster struct {
		key   string
		count int
	}

	clusters := make([]cluster, 0, len(groups))

	for _, g := range groups {
		if len(g.members) >= 2 {
			clusters = append(clusters, cluster{key: g.key, count: len(g.members)})

			if d.logger != nil {
				d.logger.Debug().
					Str("topic", g.key).
					Int("sources", len(g.members)).
					Msg("trending topic detected")
			}
		}
	}

	out := make([]domain.Item, 0, len(items))

	for _, it := range items {
		stamped := it

		for _, c := range clusters {
			if topics.SameTopic(it.Title, c.key) {
				stamped.Trending = true
				stamped.TrendingCount = c.count

				break
			}
		}

		out = append(out, stamped)
	}

	return out
}

func (g *group) hasSourceGroup(source domain.Source, label string) bool {
	for _, m := range g.members {
		if m.Source == source && m.Group == label {
			return true
		}
	}

	return false
}
