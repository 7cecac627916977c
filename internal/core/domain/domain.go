package domain

import "time"

// Source identifies an upstream feed in the fixed source enumeration.
type Source string

const (
	SourceReddit      Source = "reddit"
	SourceHackerNews  Source = "hackernews"
	SourceTechCrunch  Source = "techcrunch"
	SourceTheVerge    Source = "theverge"
	SourceArsTechnica Source = "arstechnica"
	SourceGoogleNews  Source = "googlenews"
)

// Item is the unit flowing through the curation pipeline. Items are created
// fresh on each fetch cycle and are immutable once produced by a fetcher;
// later stages return copies rather than mutating in place.
type Item struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Group      string `json:"group"`
	Score      int    `json:"score"`
	Comments   int    `json:"comments"`
	URL        string `json:"url"`
	CreatedAt  int64  `json:"created_at"`
	Permalink  string `json:"permalink"`
	SourceRank int    `json:"source_rank"`
	Source     Source `json:"source"`

	// Trending fields are set only by the trending detector.
	Trending      bool `json:"trending,omitempty"`
	TrendingCount int  `json:"trending_count,omitempty"`

	// PostedAt is stamped by the store when an item is marked as posted.
	PostedAt time.Time `json:"posted_at,omitzero"`
}

// Snapshot is the state of the post store at a point in time.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Pending     []Item    `json:"pending"`
	Posted      []Item    `json:"posted"`
}

// Stats aggregates posting history counters.
type Stats struct {
	TotalPosted    int            `json:"total_posted"`
	PostedToday    int            `json:"posted_today"`
	PostedThisWeek int            `json:"posted_this_week"`
	ByGroup        map[string]int `json:"by_group"`
	BySource       map[string]int `json:"by_source"`
}

// Tone selects the voice used for generated social copy.
type Tone string

const (
	ToneHotTake    Tone = "hottake"
	ToneAnalytical Tone = "analytical"
	ToneSarcastic  Tone = "sarcastic"
	ToneUnhinged   Tone = "unhinged"
)

// Tones lists every supported tone.
var Tones = []Tone{ToneHotTake, ToneAnalytical, ToneSarcastic, ToneUnhinged}

// Valid reports whether the tone is a member of the fixed enumeration.
func (t Tone) Valid() bool {
	switch t {
	case ToneHotTake, ToneAnalytical, ToneSarcastic, ToneUnhinged:
		return true
	}

	return false
}

// GeneratedPost is one tweet variant produced by the text generator.
type GeneratedPost struct {
	Text           string `json:"text"`
	Tone           Tone   `json:"tone"`
	CharacterCount int    `json:"character_count"`
}
