package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/platform/observability"
)

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = time.Minute
	rateLimiterBurst        = 5
)

type openaiGenerator struct {
	client *openai.Client
	model  string
	logger *zerolog.Logger

	rateLimiter *rate.Limiter

	mu                  sync.Mutex
	consecutiveFailures int
	circuitOpenUntil    time.Time
}

// NewOpenAI creates the OpenAI-backed generator. rps bounds outbound request
// rate.
func NewOpenAI(apiKey, model string, rps float64, logger *zerolog.Logger) Generator {
	if model == "" {
		model = openai.GPT4oMini
	}

	if rps <= 0 {
		rps = 1
	}

	return &openaiGenerator{
		client:      openai.NewClient(apiKey),
		model:       model,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), rateLimiterBurst),
	}
}

// GenerateTweets implements Generator. It never returns an error for backend
// failures; the fallback variants cover those.
func (g *openaiGenerator) GenerateTweets(ctx context.Context, req Request) ([]domain.GeneratedPost, error) {
	return g.generate(ctx, req, buildTweetPrompt(req), variantCount)
}

// GenerateThread implements Generator.
func (g *openaiGenerator) GenerateThread(ctx context.Context, req Request) ([]domain.GeneratedPost, error) {
	return g.generate(ctx, req, buildThreadPrompt(req), 5)
}

func (g *openaiGenerator) generate(ctx context.Context, req Request, prompt string, maxVariants int) ([]domain.GeneratedPost, error) {
	tone := req.Tone
	if !tone.Valid() {
		tone = domain.ToneHotTake
	}

	content, err := g.complete(ctx, prompt, toneTemperature[tone])
	if err != nil {
		g.logger.Warn().Err(err).Str("tone", string(tone)).Msg("generation failed, using fallback")
		observability.LLMFallbacks.Inc()

		return Fallback(tone), nil
	}

	posts, err := parseVariants(content, tone, maxVariants)
	if err != nil {
		g.logger.Warn().Err(err).Str("tone", string(tone)).Msg("unparseable generation output, using fallback")
		observability.LLMFallbacks.Inc()

		return Fallback(tone), nil
	}

	return posts, nil
}

func (g *openaiGenerator) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	if err := g.checkCircuit(); err != nil {
		return "", err
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})

	observability.LLMRequestDuration.WithLabelValues(g.model).Observe(time.Since(start).Seconds())

	if err != nil {
		g.recordFailure()

		return "", fmt.Errorf("chat completion: %w", err)
	}

	g.recordSuccess()

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

// parseVariants decodes the {"tweets":[{"text":...}]} payload, tolerating
// markdown code fences around the JSON.
func parseVariants(content string, tone domain.Tone, maxVariants int) ([]domain.GeneratedPost, error) {
	clean := stripCodeFences(content)

	var payload struct {
		Tweets []struct {
			Text string `json:"text"`
		} `json:"tweets"`
	}

	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("decode variants: %w", err)
	}

	if len(payload.Tweets) == 0 {
		return nil, fmt.Errorf("no tweets in response")
	}

	if len(payload.Tweets) > maxVariants {
		payload.Tweets = payload.Tweets[:maxVariants]
	}

	posts := make([]domain.GeneratedPost, 0, len(payload.Tweets))

	for _, t := range payload.Tweets {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}

		posts = append(posts, domain.GeneratedPost{
			Text:           text,
			Tone:           tone,
			CharacterCount: len([]rune(text)),
		})
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("all variants empty")
	}

	return posts, nil
}

func stripCodeFences(s string) string {
	clean := strings.TrimSpace(s)

	if !strings.Contains(clean, "```") {
		return clean
	}

	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```JSON", "")
	clean = strings.ReplaceAll(clean, "```", "")

	return strings.TrimSpace(clean)
}

func (g *openaiGenerator) checkCircuit() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if time.Now().Before(g.circuitOpenUntil) {
		return fmt.Errorf("circuit breaker open until %v", g.circuitOpenUntil)
	}

	return nil
}

func (g *openaiGenerator) recordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.consecutiveFailures = 0
}

func (g *openaiGenerator) recordFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.consecutiveFailures++

	if g.consecutiveFailures >= circuitBreakerThreshold {
		g.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		g.logger.Warn().
			Int("consecutive_failures", g.consecutiveFailures).
			Time("open_until", g.circuitOpenUntil).
			Msg("generation circuit breaker opened")
	}
}

// NewFallbackOnly returns a generator that always serves the templated
// variants. Used when no API key is configured.
func NewFallbackOnly(logger *zerolog.Logger) Generator {
	return &fallbackGenerator{logger: logger}
}

type fallbackGenerator struct {
	logger *zerolog.Logger
}

func (g *fallbackGenerator) GenerateTweets(_ context.Context, req Request) ([]domain.GeneratedPost, error) {
	observability.LLMFallbacks.Inc()

	return Fallback(req.Tone), nil
}

func (g *fallbackGenerator) GenerateThread(_ context.Context, req Request) ([]domain.GeneratedPost, error) {
	observability.LLMFallbacks.Inc()

	return Fallback(req.Tone), nil
}
