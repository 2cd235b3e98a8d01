// Package source classifies article URLs by encyclopedia, extracts canonical
// slugs, and maps a URL on one source to its counterpart on the other.
//
// Everything here is pure string manipulation: no I/O, and malformed input
// yields zero values rather than errors.
package source

import (
	"net/url"
	"strings"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
)

// Canonical page URL templates for each source.
const (
	grokipediaPageTemplate = "https://grokipedia.com/page/"
	wikipediaPageTemplate  = "https://en.wikipedia.org/wiki/"
)

// Detect classifies rawURL by host suffix. Mobile and language subdomains
// match (en.m.wikipedia.org), spoofed hosts (notgrokipedia.com) do not.
// Returns the empty Source when the host matches neither encyclopedia.
func Detect(rawURL string) domain.Source {
	host := hostOf(rawURL)

	switch {
	case hasDomainSuffix(host, "grokipedia.com"):
		return domain.SourceGrokipedia
	case hasDomainSuffix(host, "wikipedia.org"):
		return domain.SourceWikipedia
	default:
		return ""
	}
}

// ExtractSlug extracts the canonical article slug from a Grokipedia or
// Wikipedia URL. Handles:
//
//   - Grokipedia: https://grokipedia.com/page/Title
//   - Wikipedia desktop: https://en.wikipedia.org/wiki/Title
//   - Wikipedia mobile: https://en.m.wikipedia.org/wiki/Title
//   - Wikipedia index: https://en.wikipedia.org/w/index.php?title=Title
//
// The slug is percent-decoded, fragment-free, space-to-underscore normalized,
// and stripped of leading/trailing slashes. The second return is false when
// no slug pattern matches.
func ExtractSlug(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(parsed.Host)
	path := parsed.EscapedPath()

	if hasDomainSuffix(host, "grokipedia.com") {
		if _, rest, found := strings.Cut(path, "/page/"); found {
			return normalizeSlug(rest)
		}
		return "", false
	}

	if hasDomainSuffix(host, "wikipedia.org") {
		if _, rest, found := strings.Cut(path, "/wiki/"); found {
			return normalizeSlug(rest)
		}
		// index.php?title=Title pattern
		if title := parsed.Query().Get("title"); title != "" {
			return normalizeSlug(title)
		}
	}

	return "", false
}

// Convert maps a URL on one source to the counterpart article URL on the
// other, re-encoding the slug for a URL path. Returns false when the source
// or slug cannot be determined.
func Convert(rawURL string) (string, bool) {
	slug, ok := ExtractSlug(rawURL)
	if !ok || slug == "" {
		return "", false
	}

	switch Detect(rawURL) {
	case domain.SourceGrokipedia:
		return WikipediaURL(slug), true
	case domain.SourceWikipedia:
		return GrokipediaURL(slug), true
	default:
		return "", false
	}
}

// Ref builds the ArticleRef for rawURL, combining detection and extraction.
func Ref(rawURL string) (domain.ArticleRef, bool) {
	src := Detect(rawURL)
	if !src.Valid() {
		return domain.ArticleRef{}, false
	}
	slug, ok := ExtractSlug(rawURL)
	if !ok || slug == "" {
		return domain.ArticleRef{}, false
	}
	return domain.ArticleRef{Source: src, Slug: slug, URL: rawURL}, true
}

// GrokipediaURL returns the canonical Grokipedia page URL for slug.
func GrokipediaURL(slug string) string {
	return grokipediaPageTemplate + encodeSlug(slug)
}

// WikipediaURL returns the canonical Wikipedia article URL for slug.
func WikipediaURL(slug string) string {
	return wikipediaPageTemplate + encodeSlug(slug)
}

// hostOf extracts the lowercased host from rawURL. Input that does not parse
// as a URL (or has no host component) is treated as a bare host string.
func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return strings.ToLower(strings.TrimSpace(rawURL))
	}
	return strings.ToLower(parsed.Host)
}

// hasDomainSuffix reports whether host is domain or a subdomain of it.
// A plain suffix check would accept spoofs like notgrokipedia.com.
func hasDomainSuffix(host, domainName string) bool {
	return host == domainName || strings.HasSuffix(host, "."+domainName)
}

// normalizeSlug percent-decodes, strips fragments, converts spaces to
// underscores, and trims path separators. Malformed percent escapes keep the
// raw text rather than failing.
func normalizeSlug(s string) (string, bool) {
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}
	s, _, _ = strings.Cut(s, "#")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.Trim(s, "/")
	if s == "" {
		return "", false
	}
	return s, true
}

// encodeSlug percent-encodes a slug for use in a URL path, keeping only
// unreserved characters (letters, digits, '-', '_', '.', '~'). Everything
// else, including '/', is encoded byte-wise over the UTF-8 representation.
func encodeSlug(slug string) string {
	var b strings.Builder
	b.Grow(len(slug))

	for i := 0; i < len(slug); i++ {
		c := slug[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex(c >> 4))
		b.WriteByte(upperHex(c & 0xf))
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return false
}

func upperHex(n byte) byte {
	const digits = "0123456789ABCDEF"
	return digits[n]
}
