// Package domain defines the core records passed between the resolution,
// fetching, and generation layers of the comparator pipeline.
package domain

import "strings"

// Source identifies which encyclopedia an article belongs to.
type Source string

const (
	// SourceGrokipedia is the Grokipedia encyclopedia (grokipedia.com).
	SourceGrokipedia Source = "grokipedia"
	// SourceWikipedia is the Wikipedia encyclopedia (wikipedia.org).
	SourceWikipedia Source = "wikipedia"
)

// Valid reports whether s names a known source.
func (s Source) Valid() bool {
	return s == SourceGrokipedia || s == SourceWikipedia
}

// Other returns the counterpart source.
func (s Source) Other() Source {
	if s == SourceGrokipedia {
		return SourceWikipedia
	}
	return SourceGrokipedia
}

// ArticleRef identifies an article on a specific source. The slug is
// percent-decoded, fragment-free, and underscore-normalized. ArticleRefs are
// immutable once produced by the source package.
type ArticleRef struct {
	Source Source
	Slug   string
	URL    string
}

// MaxSections bounds the number of section headings retained on a record
// regardless of how many the upstream source reports.
const MaxSections = 5

// ArticleRecord is a fetched article. All fields are transient; nothing is
// persisted beyond the request that fetched it.
type ArticleRecord struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Sections []string `json:"sections"`
	FullText string   `json:"full_text"`
	URL      string   `json:"url"`
	Source   Source   `json:"source"`
}

// Body returns the text used as generation input: the full text when present,
// otherwise a synthesis of the summary and section headings.
func (a *ArticleRecord) Body() string {
	if a == nil {
		return ""
	}
	if strings.TrimSpace(a.FullText) != "" {
		return a.FullText
	}

	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(a.Summary); s != "" {
		parts = append(parts, s)
	}
	if len(a.Sections) > 0 {
		parts = append(parts, strings.Join(a.Sections, "\n"))
	}
	return strings.Join(parts, "\n\n")
}
