// Package htmlutils provides small HTML processing helpers for feed content
// blobs: href extraction and tag stripping.
package htmlutils

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

var (
	anchorRegex = regexp.MustCompile(`(?i)<a[^>]*>`)
	hrefRegex   = regexp.MustCompile(`(?i)\s*href\s*=\s*["']([^"']*)["']`)
	tagRegex    = regexp.MustCompile(`<(/?)([a-zA-Z0-9-]+)([^>]*)>`)
)

// FirstExternalHref returns the first anchor href in the blob whose host is
// not in skipHosts. Hosts match exactly or as a subdomain. Returns "" when no
// external link exists.
func FirstExternalHref(blob string, skipHosts ...string) string {
	for _, anchor := range anchorRegex.FindAllString(blob, -1) {
		m := hrefRegex.FindStringSubmatch(anchor)
		if m == nil {
			continue
		}

		href := html.UnescapeString(m[1])

		u, err := url.Parse(href)
		if err != nil || u.Host == "" {
			continue
		}

		if !hostIn(strings.ToLower(u.Hostname()), skipHosts) {
			return href
		}
	}

	return ""
}

// StripTags removes all HTML tags and decodes entities, collapsing the
// result's whitespace.
func StripTags(s string) string {
	plain := tagRegex.ReplaceAllString(s, " ")
	plain = html.UnescapeString(plain)

	return strings.Join(strings.Fields(plain), " ")
}

func hostIn(host string, hosts []string) bool {
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}

	return false
}
