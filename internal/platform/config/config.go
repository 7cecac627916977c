// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/curatorhq/newsdesk/internal/core/domain"
)

// Config is the full runtime configuration.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Source selection and endpoints.
	Sources           []string `env:"SOURCES" envSeparator:"," envDefault:"reddit,hackernews,techcrunch,theverge,arstechnica,googlenews"`
	Subreddits        []string `env:"SUBREDDITS" envSeparator:"," envDefault:"technology,programming,technews,MachineLearning,artificial,netsec,cybersecurity,gadgets"`
	HackerNewsFeedURL string   `env:"HACKERNEWS_FEED_URL" envDefault:"https://hnrss.org/newest?points=150&count=25"`
	TechCrunchFeedURL string   `env:"TECHCRUNCH_FEED_URL" envDefault:"https://techcrunch.com/feed/"`
	TheVergeFeedURL   string   `env:"THEVERGE_FEED_URL" envDefault:"https://www.theverge.com/rss/index.xml"`
	ArsFeedURL        string   `env:"ARSTECHNICA_FEED_URL" envDefault:"https://feeds.arstechnica.com/arstechnica/index"`
	GoogleNewsFeedURL string   `env:"GOOGLENEWS_FEED_URL" envDefault:"https://news.google.com/rss/search?q=technology&hl=en-US&gl=US&ceid=US:en"`

	// Allocation knobs.
	PostsPerSource    int `env:"POSTS_PER_SOURCE" envDefault:"10"`
	QuotaPerSource    int `env:"QUOTA_PER_SOURCE" envDefault:"5"`
	TotalTarget       int `env:"TOTAL_TARGET" envDefault:"30"`
	MinEngagement     int `env:"MIN_ENGAGEMENT" envDefault:"50"`
	MinComments       int `env:"MIN_COMMENTS" envDefault:"10"`
	AssumedScore      int `env:"ASSUMED_SCORE" envDefault:"150"`
	RecencyWindowDays int `env:"RECENCY_WINDOW_DAYS" envDefault:"3"`

	// Extra keyword lists appended to the built-ins.
	BlockedKeywords []string `env:"BLOCKED_KEYWORDS" envSeparator:","`
	BoostKeywords   []string `env:"BOOST_KEYWORDS" envSeparator:","`

	// Network bounds.
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	WebFetchTimeout time.Duration `env:"WEB_FETCH_TIMEOUT" envDefault:"8s"`
	WebFetchRPS     float64       `env:"WEB_FETCH_RPS" envDefault:"2"`

	// Optional periodic refresh; zero disables it.
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"0"`

	// Store retention.
	StoreRetention time.Duration `env:"STORE_RETENTION" envDefault:"96h"`

	// Text generation.
	LLMAPIKey  string  `env:"LLM_API_KEY"`
	LLMModel   string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMRateRPS float64 `env:"LLM_RATE_RPS" envDefault:"1"`

	// configuredTarget holds the TOTAL_TARGET value normalization replaced,
	// zero when no adjustment happened. Surfaced through TargetAdjusted so
	// the caller can warn once a logger exists.
	configuredTarget int
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the allocation invariant. The quota assumes
// QuotaPerSource * sourceCount == TotalTarget; when sources are added or
// removed without retuning, the target is recomputed so the output does not
// silently undershoot.
func (c *Config) normalize() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	if c.QuotaPerSource <= 0 || c.TotalTarget <= 0 {
		return fmt.Errorf("quota and target must be positive")
	}

	for _, s := range c.Sources {
		if !knownSource(s) {
			return fmt.Errorf("unknown source %q", s)
		}
	}

	if c.QuotaPerSource*len(c.Sources) != c.TotalTarget {
		c.configuredTarget = c.TotalTarget
		c.TotalTarget = c.QuotaPerSource * len(c.Sources)
	}

	return nil
}

// TargetAdjusted reports whether normalization replaced the configured total
// target, and the value it replaced.
func (c *Config) TargetAdjusted() (int, bool) {
	return c.configuredTarget, c.configuredTarget != 0
}

// SourceList returns the configured sources as typed values, preserving
// order.
func (c *Config) SourceList() []domain.Source {
	out := make([]domain.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, domain.Source(s))
	}

	return out
}

// RecencyWindow converts the day-based window into a duration.
func (c *Config) RecencyWindow() time.Duration {
	return time.Duration(c.RecencyWindowDays) * 24 * time.Hour
}

func knownSource(s string) bool {
	switch domain.Source(s) {
	case domain.SourceReddit, domain.SourceHackerNews, domain.SourceTechCrunch,
		domain.SourceTheVerge, domain.SourceArsTechnica, domain.SourceGoogleNews:
		return true
	}

	return false
}
