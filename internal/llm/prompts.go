package llm

import (
	"fmt"
	"strings"

	"github.com/curatorhq/newsdesk/internal/core/domain"
)

// summaryContextLimit bounds how much article text goes into the prompt.
const summaryContextLimit = 400

// toneTemperature maps each tone to its sampling temperature. Unhinged runs
// hottest, analytical coolest.
var toneTemperature = map[domain.Tone]float32{
	domain.ToneHotTake:    0.9,
	domain.ToneAnalytical: 0.7,
	domain.ToneSarcastic:  0.95,
	domain.ToneUnhinged:   1.1,
}

var tonePrompts = map[domain.Tone]string{
	domain.ToneHotTake: `Write like someone who's been in tech for years and is tired of the BS. Confident, direct, slightly jaded, like texting a friend about industry news. State facts that happen to be brutal. Avoid starting with "So" or "Well", avoid "wild"/"insane"/"crazy", rhetorical questions, or sounding impressed.`,

	domain.ToneAnalytical: `Write like a tech insider sharing genuine insight, connecting dots on the business side. Two sentences max, like a senior engineer adding context in chat. Avoid "The real story is", numbered lists, LinkedIn-post voice, and words like "landscape" or "ecosystem".`,

	domain.ToneSarcastic: `Write like someone who's seen this exact thing happen ten times before. Dry, deadpan, understated; the humor comes from understatement, not exaggeration. Avoid obvious sarcasm markers, cruelty, or explaining the irony.`,

	domain.ToneUnhinged: `Write like someone who spends too much time online but is actually making a point. Lowercase, casual, meme-adjacent; the joke is in the delivery. Avoid forced meme references, random emojis, and ALL CAPS.`,
}

func buildTweetPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("NEWS: %q", req.Title))

	if req.ArticleSummary != "" {
		summary := req.ArticleSummary
		if len(summary) > summaryContextLimit {
			summary = summary[:summaryContextLimit]
		}

		sb.WriteString("\n\nARTICLE: " + summary)
	}

	if req.CompanyContext != "" {
		sb.WriteString("\n\nBACKGROUND: " + req.CompanyContext)
	}

	sb.WriteString("\n\n")
	sb.WriteString(tonePrompts[req.Tone])
	sb.WriteString(fmt.Sprintf(`

Write %d tweets about this news. Each tweet should be 1-2 sentences, take a different angle, reference something specific from the news, and sound like an actual person typed it, not a brand.

Do NOT use these giveaway phrases: "Let's talk about", "Here's the thing", "I mean", "Look,", "Honestly,", "The fact that", "Imagine", "Picture this".

Return only JSON:
{"tweets":[{"text":"..."},{"text":"..."},{"text":"..."}]}`, variantCount))

	return sb.String()
}

func buildThreadPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("NEWS: %q", req.Title))

	if req.ArticleSummary != "" {
		summary := req.ArticleSummary
		if len(summary) > summaryContextLimit {
			summary = summary[:summaryContextLimit]
		}

		sb.WriteString("\n\nARTICLE: " + summary)
	}

	if req.CompanyContext != "" {
		sb.WriteString("\n\nBACKGROUND: " + req.CompanyContext)
	}

	sb.WriteString("\n\n")
	sb.WriteString(tonePrompts[req.Tone])
	sb.WriteString(`

Write a thread of 3 to 5 tweets unpacking this news. The first tweet hooks without clickbait, each following tweet adds one concrete point, and the last lands the takeaway. Number nothing; each tweet stands alone.

Return only JSON:
{"tweets":[{"text":"..."},{"text":"..."}]}`)

	return sb.String()
}
