package fetcher

import (
	"regexp"
	"strings"
)

// chromeLines are navigation artifacts scrapers pick up from the page shell.
// Compared against the whole trimmed line, case-insensitively.
var chromeLines = map[string]struct{}{
	"search":          {},
	"suggest article": {},
	"edits history":   {},
	"edit history":    {},
	"new search":      {},
	"sign in":         {},
	"log in":          {},
	"login":           {},
	"logout":          {},
	"log out":         {},
	"home":            {},
	"menu":            {},
}

// shortcutMarkers flag keyboard-shortcut hints embedded in scraped nav text.
var shortcutMarkers = []string{
	"cmd+k", "command+k", "command + k",
	"ctrl+k", "ctrl + k", "ctrl k",
	"cmd k", "⌘k", "⌘ k",
}

var footnoteDefRe = regexp.MustCompile(`^\[\d+\]:\s*\S+`)

var markdownUnescaper = strings.NewReplacer(
	`\[`, `[`,
	`\]`, `]`,
	`\(`, `(`,
	`\)`, `)`,
	`\\`, `\`,
)

// CleanMarkdown strips scraper artifacts from markdown scraped off an article
// page: site chrome, keyboard-shortcut hints, fact-check banners, footnote
// link definitions, and bare repeats of the article title. Runs of blank
// lines are collapsed to a single blank line.
func CleanMarkdown(text, title string) string {
	text = markdownUnescaper.Replace(text)
	lowerTitle := strings.ToLower(strings.TrimSpace(title))

	var out []string
	blanks := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if trimmed == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0

		if _, chrome := chromeLines[lower]; chrome {
			continue
		}
		if hasShortcutMarker(lower) {
			continue
		}
		if strings.HasPrefix(lower, "fact-checked by") {
			continue
		}
		if footnoteDefRe.MatchString(trimmed) {
			continue
		}
		if lowerTitle != "" && lower == lowerTitle {
			continue
		}

		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func hasShortcutMarker(lower string) bool {
	for _, marker := range shortcutMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// firstSummaryLine returns the first non-heading line longer than 100 runes,
// truncated to 500, for use as an article summary when the source page has no
// dedicated abstract.
func firstSummaryLine(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if len([]rune(trimmed)) > 100 {
			return truncateRunes(trimmed, 500)
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
