package llm

import "github.com/curatorhq/newsdesk/internal/core/domain"

// fallbackVariants are the deterministic templated tweets served when the
// generation backend is unavailable or returns something unparseable.
var fallbackVariants = map[domain.Tone][]string{
	domain.ToneHotTake: {
		"they've been saying the opposite for years but sure",
		"funny timing on this one",
		"we're really doing this again huh",
	},
	domain.ToneAnalytical: {
		"this is really about their upcoming earnings, the rest is just positioning",
		"makes more sense when you look at what their competitors announced last week",
		"third time they've tried this approach. curious if anything's different now",
	},
	domain.ToneSarcastic: {
		"ah yes, because that worked so well last time",
		"can't wait to see how this gets quietly reversed",
		"the audacity is almost impressive",
	},
	domain.ToneUnhinged: {
		"me watching this knowing exactly how it ends",
		"we're really just doing this now",
		"not them acting like we wouldn't notice",
	},
}

// Fallback returns the fixed variants for a tone. The output only depends on
// the tone, never on the title, so callers can rely on it in tests and
// degraded mode alike.
func Fallback(tone domain.Tone) []domain.GeneratedPost {
	variants := fallbackVariants[tone]
	if variants == nil {
		variants = fallbackVariants[domain.ToneHotTake]
		tone = domain.ToneHotTake
	}

	posts := make([]domain.GeneratedPost, 0, len(variants))

	for _, text := range variants {
		posts = append(posts, domain.GeneratedPost{
			Text:           text,
			Tone:           tone,
			CharacterCount: len(text),
		})
	}

	return posts
}
