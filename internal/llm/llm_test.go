package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/newsdesk/internal/core/domain"
)

func TestParseVariants(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"tweets":[{"text":"first take"},{"text":"second take"}]}`,
			want:    []string{"first take", "second take"},
		},
		{
			name: "fenced json",
			content: "```json\n" +
				`{"tweets":[{"text":"fenced take"}]}` + "\n```",
			want: []string{"fenced take"},
		},
		{
			name: "uppercase fence",
			content: "```JSON\n" +
				`{"tweets":[{"text":"loud fence"}]}` + "\n```",
			want: []string{"loud fence"},
		},
		{
			name:    "whitespace trimmed",
			content: `{"tweets":[{"text":"  padded  "}]}`,
			want:    []string{"padded"},
		},
		{
			name:    "blank variants skipped",
			content: `{"tweets":[{"text":"   "},{"text":"kept"}]}`,
			want:    []string{"kept"},
		},
		{
			name:    "not json",
			content: "Sure! Here are some tweets for you:",
			wantErr: true,
		},
		{
			name:    "empty tweets array",
			content: `{"tweets":[]}`,
			wantErr: true,
		},
		{
			name:    "all variants blank",
			content: `{"tweets":[{"text":""},{"text":"  "}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := parseVariants(tt.content, domain.ToneAnalytical, variantCount)

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Len(t, posts, len(tt.want))

			for i, want := range tt.want {
				assert.Equal(t, want, posts[i].Text)
				assert.Equal(t, domain.ToneAnalytical, posts[i].Tone)
				assert.Equal(t, len([]rune(want)), posts[i].CharacterCount)
			}
		})
	}
}

func TestParseVariants_TruncatesToMax(t *testing.T) {
	content := `{"tweets":[{"text":"one"},{"text":"two"},{"text":"three"},{"text":"four"},{"text":"five"}]}`

	posts, err := parseVariants(content, domain.ToneSarcastic, 3)

	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestParseVariants_CountsRunesNotBytes(t *testing.T) {
	content := `{"tweets":[{"text":"café ☕"}]}`

	posts, err := parseVariants(content, domain.ToneHotTake, variantCount)

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 6, posts[0].CharacterCount)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}

func TestFallback_EveryToneHasVariants(t *testing.T) {
	for _, tone := range domain.Tones {
		posts := Fallback(tone)

		require.NotEmpty(t, posts, "tone %s must have fallback variants", tone)

		for _, p := range posts {
			assert.Equal(t, tone, p.Tone)
			assert.NotEmpty(t, p.Text)
			assert.Equal(t, len([]rune(p.Text)), p.CharacterCount)
			assert.LessOrEqual(t, p.CharacterCount, 280)
		}
	}
}

func TestFallback_UnknownToneDefaultsToHotTake(t *testing.T) {
	posts := Fallback(domain.Tone("poetic"))

	require.NotEmpty(t, posts)
	assert.Equal(t, domain.ToneHotTake, posts[0].Tone)
}

func TestFallback_Deterministic(t *testing.T) {
	first := Fallback(domain.ToneUnhinged)
	second := Fallback(domain.ToneUnhinged)

	assert.Equal(t, first, second)
}

func TestFallbackOnlyGenerator(t *testing.T) {
	nop := zerolog.Nop()
	g := NewFallbackOnly(&nop)

	tweets, err := g.GenerateTweets(context.Background(), Request{Title: "anything", Tone: domain.ToneSarcastic})

	require.NoError(t, err)
	require.NotEmpty(t, tweets)
	assert.Equal(t, domain.ToneSarcastic, tweets[0].Tone)

	thread, err := g.GenerateThread(context.Background(), Request{Title: "anything", Tone: domain.ToneAnalytical})

	require.NoError(t, err)
	assert.NotEmpty(t, thread)
}

func TestBuildTweetPrompt_IncludesContext(t *testing.T) {
	prompt := buildTweetPrompt(Request{
		Title:          "Nvidia ships new inference accelerator",
		Tone:           domain.ToneAnalytical,
		ArticleSummary: "The chip doubles throughput per watt.",
		CompanyContext: "NVIDIA dominates the AI accelerator market.",
	})

	assert.Contains(t, prompt, "Nvidia ships new inference accelerator")
	assert.Contains(t, prompt, "doubles throughput per watt")
	assert.Contains(t, prompt, "dominates the AI accelerator market")
	assert.Contains(t, strings.ToLower(prompt), "json")
}

func TestBuildTweetPrompt_ClipsLongSummary(t *testing.T) {
	long := strings.Repeat("x", 2*summaryContextLimit)

	prompt := buildTweetPrompt(Request{
		Title:          "headline",
		Tone:           domain.ToneHotTake,
		ArticleSummary: long,
	})

	assert.NotContains(t, prompt, long)
	assert.Contains(t, prompt, strings.Repeat("x", summaryContextLimit))
}
