package enrich

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/curatorhq/newsdesk/internal/process/filters"
)

// ImageExtractor scrapes a page's social-card image URL.
type ImageExtractor struct {
	fetcher *WebFetcher
	logger  *zerolog.Logger
}

// NewImageExtractor creates an ImageExtractor.
func NewImageExtractor(fetcher *WebFetcher, logger *zerolog.Logger) *ImageExtractor {
	return &ImageExtractor{fetcher: fetcher, logger: logger}
}

// ExtractImage returns the article's image URL, or "" when none exists.
// Aggregator discussion pages return "" by design: they carry no article
// image.
func (e *ImageExtractor) ExtractImage(ctx context.Context, rawURL string) string {
	if rawURL == "" || filters.IsAggregatorURL(rawURL) {
		return ""
	}

	body, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		e.logger.Debug().Err(err).Str("url", rawURL).Msg("image page fetch failed")

		return ""
	}

	meta := extractMetaTags(body)

	image := firstNonEmpty(meta.OGImage, meta.OGImageSecure, meta.TwitterImage, meta.ImageSrc)
	if image == "" {
		return ""
	}

	return resolveImageURL(image, rawURL)
}

// resolveImageURL fixes protocol-relative and root-relative image URLs
// against the article page.
func resolveImageURL(image, pageURL string) string {
	if strings.HasPrefix(image, "//") {
		return "https:" + image
	}

	if strings.HasPrefix(image, "/") {
		page, err := url.Parse(pageURL)
		if err != nil {
			return image
		}

		return page.Scheme + "://" + page.Host + image
	}

	return image
}

// metaTags holds the subset of page metadata the extractors care about.
type metaTags struct {
	Description   string
	OGDescription string
	OGImage       string
	OGImageSecure string
	TwitterImage  string
	ImageSrc      string
}

func extractMetaTags(body []byte) metaTags {
	var meta metaTags

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return meta
	}

	var traverse func(*html.Node)

	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				name, content := metaAttrs(n)
				switch strings.ToLower(name) {
				case "description":
					meta.Description = content
				case "og:description":
					meta.OGDescription = content
				case "og:image":
					meta.OGImage = content
				case "og:image:secure_url":
					meta.OGImageSecure = content
				case "twitter:image", "twitter:image:src":
					meta.TwitterImage = content
				}
			case "link":
				if rel, href := linkAttrs(n); strings.EqualFold(rel, "image_src") {
					meta.ImageSrc = href
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(doc)

	return meta
}

func metaAttrs(n *html.Node) (name, content string) {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "name", "property":
			name = attr.Val
		case "content":
			content = attr.Val
		}
	}

	return name, content
}

func linkAttrs(n *html.Node) (rel, href string) {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "rel":
			rel = attr.Val
		case "href":
			href = attr.Val
		}
	}

	return rel, href
}
