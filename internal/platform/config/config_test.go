package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/newsdesk/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Len(t, cfg.Sources, 6)
	assert.Len(t, cfg.Subreddits, 8)
	assert.Equal(t, 10, cfg.PostsPerSource)
	assert.Equal(t, 5, cfg.QuotaPerSource)
	assert.Equal(t, 30, cfg.TotalTarget)
	assert.Equal(t, 50, cfg.MinEngagement)
	assert.Equal(t, 10, cfg.MinComments)
	assert.Equal(t, 150, cfg.AssumedScore)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 96*time.Hour, cfg.StoreRetention)
	assert.Equal(t, time.Duration(0), cfg.RefreshInterval)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SOURCES", "reddit,hackernews")
	t.Setenv("QUOTA_PER_SOURCE", "7")
	t.Setenv("SUBREDDITS", "golang,rust")
	t.Setenv("REFRESH_INTERVAL", "30m")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"reddit", "hackernews"}, cfg.Sources)
	assert.Equal(t, []string{"golang", "rust"}, cfg.Subreddits)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
}

func TestNormalizeRecomputesTarget(t *testing.T) {
	// Dropping sources without retuning the target would silently
	// undershoot; the target follows the quota instead.
	t.Setenv("SOURCES", "reddit,hackernews,techcrunch")
	t.Setenv("QUOTA_PER_SOURCE", "5")
	t.Setenv("TOTAL_TARGET", "30")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 15, cfg.TotalTarget)

	from, adjusted := cfg.TargetAdjusted()
	assert.True(t, adjusted, "the adjustment must be reported for the startup warning")
	assert.Equal(t, 30, from)
}

func TestNormalizeKeepsConsistentTarget(t *testing.T) {
	t.Setenv("SOURCES", "reddit,hackernews")
	t.Setenv("QUOTA_PER_SOURCE", "5")
	t.Setenv("TOTAL_TARGET", "10")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.TotalTarget)

	_, adjusted := cfg.TargetAdjusted()
	assert.False(t, adjusted)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("SOURCES", "reddit,myspace")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "myspace")
}

func TestLoadRejectsEmptySources(t *testing.T) {
	t.Setenv("SOURCES", ",")

	_, err := Load()

	require.Error(t, err)
}

func TestLoadRejectsNonPositiveQuota(t *testing.T) {
	t.Setenv("QUOTA_PER_SOURCE", "0")

	_, err := Load()

	require.Error(t, err)
}

func TestSourceList(t *testing.T) {
	t.Setenv("SOURCES", "googlenews,reddit")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []domain.Source{domain.SourceGoogleNews, domain.SourceReddit}, cfg.SourceList())
}

func TestRecencyWindow(t *testing.T) {
	t.Setenv("RECENCY_WINDOW_DAYS", "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, cfg.RecencyWindow())
}
