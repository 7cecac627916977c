package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher() *WebFetcher {
	// High limits keep the rate limiters out of the way.
	return NewWebFetcher(1000, 5*time.Second)
}

func TestExtractMetaTags(t *testing.T) {
	body := []byte(`<!DOCTYPE html>
<html><head>
  <meta name="description" content="A plain description">
  <meta property="og:description" content="A social description">
  <meta property="og:image" content="https://cdn.example.com/hero.jpg">
  <meta property="og:image:secure_url" content="https://cdn.example.com/hero-secure.jpg">
  <meta name="twitter:image" content="https://cdn.example.com/tw.jpg">
  <link rel="image_src" href="https://cdn.example.com/legacy.jpg">
</head><body></body></html>`)

	meta := extractMetaTags(body)

	assert.Equal(t, "A plain description", meta.Description)
	assert.Equal(t, "A social description", meta.OGDescription)
	assert.Equal(t, "https://cdn.example.com/hero.jpg", meta.OGImage)
	assert.Equal(t, "https://cdn.example.com/hero-secure.jpg", meta.OGImageSecure)
	assert.Equal(t, "https://cdn.example.com/tw.jpg", meta.TwitterImage)
	assert.Equal(t, "https://cdn.example.com/legacy.jpg", meta.ImageSrc)
}

func TestExtractMetaTags_TwitterImageSrcVariant(t *testing.T) {
	body := []byte(`<html><head><meta name="twitter:image:src" content="https://cdn.example.com/src.jpg"></head></html>`)

	meta := extractMetaTags(body)

	assert.Equal(t, "https://cdn.example.com/src.jpg", meta.TwitterImage)
}

func TestExtractMetaTags_Malformed(t *testing.T) {
	meta := extractMetaTags([]byte("<<<< not html"))

	assert.Empty(t, meta.OGImage)
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		name  string
		image string
		page  string
		want  string
	}{
		{"absolute untouched", "https://cdn.example.com/a.jpg", "https://example.com/post", "https://cdn.example.com/a.jpg"},
		{"protocol relative", "//cdn.example.com/a.jpg", "https://example.com/post", "https://cdn.example.com/a.jpg"},
		{"root relative", "/images/a.jpg", "https://example.com/post", "https://example.com/images/a.jpg"},
		{"root relative keeps scheme", "/images/a.jpg", "http://example.com/post", "http://example.com/images/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveImageURL(tt.image, tt.page))
		})
	}
}

func TestExtractImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta property="og:image" content="/hero.jpg"></head></html>`))
	}))
	defer srv.Close()

	nop := zerolog.Nop()
	e := NewImageExtractor(newFetcher(), &nop)

	got := e.ExtractImage(context.Background(), srv.URL+"/article")

	assert.Equal(t, srv.URL+"/hero.jpg", got)
}

func TestExtractImage_AggregatorPagesSkipped(t *testing.T) {
	nop := zerolog.Nop()
	e := NewImageExtractor(newFetcher(), &nop)

	assert.Empty(t, e.ExtractImage(context.Background(), "https://www.reddit.com/r/tech/comments/x/post/"))
	assert.Empty(t, e.ExtractImage(context.Background(), "https://news.ycombinator.com/item?id=1"))
	assert.Empty(t, e.ExtractImage(context.Background(), ""))
}

func TestExtractImage_FetchFailureYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	nop := zerolog.Nop()
	e := NewImageExtractor(newFetcher(), &nop)

	assert.Empty(t, e.ExtractImage(context.Background(), srv.URL+"/gone"))
}

func TestSummarize_MetaDescriptionFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta property="og:description" content="Short article blurb"></head><body></body></html>`))
	}))
	defer srv.Close()

	nop := zerolog.Nop()
	s := NewSummarizer(newFetcher(), &nop)

	got := s.Summarize(context.Background(), srv.URL+"/article")

	assert.Equal(t, "Short article blurb", got)
}

func TestSummarize_ReadableBody(t *testing.T) {
	paragraph := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Story</title></head><body><article><h1>Story</h1><p>` +
			paragraph + `</p></body></html>`))
	}))
	defer srv.Close()

	nop := zerolog.Nop()
	s := NewSummarizer(newFetcher(), &nop)

	got := s.Summarize(context.Background(), srv.URL+"/article")

	require.NotEmpty(t, got)
	assert.Contains(t, got, "quick brown fox")
	assert.LessOrEqual(t, len([]rune(got)), summaryMaxChars)
}

func TestSummarize_AggregatorSkipped(t *testing.T) {
	nop := zerolog.Nop()
	s := NewSummarizer(newFetcher(), &nop)

	assert.Empty(t, s.Summarize(context.Background(), "https://news.ycombinator.com/item?id=2"))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 5))
	assert.Equal(t, "ab", clip("abcdef", 2))
	assert.Equal(t, "héllo", clip("héllo", 5), "clip counts runes, not bytes")
}

func TestWebFetcher_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server

	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	_, err := newFetcher().Fetch(context.Background(), srv.URL+"/loop")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirects")
}

func TestWebFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newFetcher().Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestCompanyContext(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"known company", "Nvidia posts record datacenter revenue", "Nvidia"},
		{"case insensitive", "NVIDIA posts record revenue", "Nvidia"},
		{"no company", "Researchers discover new battery chemistry", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompanyContext(tt.title)

			if tt.want == "" {
				assert.Empty(t, got)

				return
			}

			assert.Contains(t, got, tt.want)
		})
	}
}

func TestCompanyContext_Deterministic(t *testing.T) {
	// Titles naming several companies always resolve to the same blurb.
	title := "Google and Apple clash over app store rules"

	first := CompanyContext(title)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CompanyContext(title))
	}

	assert.Equal(t, companyContext["google"], first)
}
