// Package topics implements approximate topic equality between headlines.
//
// A title is reduced to a fingerprint: lowercased, stripped of punctuation,
// short words dropped, truncated to the first eight significant words and
// sorted. Two titles cover the same topic when their fingerprints match
// exactly or when the word overlap relative to the smaller fingerprint
// reaches the similarity threshold.
package topics

import (
	"sort"
	"strings"
)

const (
	// minWordLength drops articles, prepositions and other short noise.
	minWordLength = 4

	// maxFingerprintWords bounds the fingerprint length so long headlines
	// still compare cheaply.
	maxFingerprintWords = 8

	// overlapThreshold is the minimum |intersection| / |smaller set| ratio
	// for two distinct fingerprints to count as the same topic.
	overlapThreshold = 0.6
)

// Fingerprint returns the order-independent token key for a title.
// It is idempotent: fingerprinting a fingerprint yields the same string.
func Fingerprint(title string) string {
	var b strings.Builder

	b.Grow(len(title))

	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())

	kept := words[:0]

	for _, w := range words {
		if len(w) >= minWordLength {
			kept = append(kept, w)
		}
	}

	if len(kept) > maxFingerprintWords {
		kept = kept[:maxFingerprintWords]
	}

	sort.Strings(kept)

	return strings.Join(kept, " ")
}

// SameTopic reports whether two titles cover the same story. The relation is
// reflexive and symmetric but not transitive; callers handling chains must
// group explicitly. Either argument may already be a fingerprint.
func SameTopic(a, b string) bool {
	fa := Fingerprint(a)
	fb := Fingerprint(b)

	if fa == fb {
		return true
	}

	// The overlap compares word sets: a word repeated within one title
	// still counts once.
	setA := wordSet(fa)
	setB := wordSet(fb)

	// Empty sets never match here: the ratio would divide by zero and a
	// title with no significant words says nothing about the story.
	if len(setA) == 0 || len(setB) == 0 {
		return false
	}

	matches := 0

	for w := range setA {
		if _, ok := setB[w]; ok {
			matches++
		}
	}

	minSize := len(setA)
	if len(setB) < minSize {
		minSize = len(setB)
	}

	return float64(matches)/float64(minSize) >= overlapThreshold
}

func wordSet(fingerprint string) map[string]struct{} {
	words := strings.Fields(fingerprint)

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}

	return set
}
