package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
)

func grokRecord() *domain.ArticleRecord {
	return &domain.ArticleRecord{
		Title:    "Nikola Tesla",
		Summary:  "Inventor.",
		FullText: "Grokipedia body text.",
		URL:      "https://grokipedia.com/page/Nikola_Tesla",
		Source:   domain.SourceGrokipedia,
	}
}

func wikiRecord() *domain.ArticleRecord {
	return &domain.ArticleRecord{
		Title:    "Nikola Tesla",
		Summary:  "Inventor.",
		FullText: "Wikipedia body text.",
		URL:      "https://en.wikipedia.org/wiki/Nikola_Tesla",
		Source:   domain.SourceWikipedia,
	}
}

func TestComparisonRequest_Parameters(t *testing.T) {
	req := ComparisonRequest(grokRecord(), wikiRecord())

	assert.Equal(t, KindComparison, req.Kind)
	assert.InDelta(t, 0.4, req.Temperature, 0.001)
	assert.Equal(t, 30000, req.MaxTokens)
	assert.Equal(t, 120*time.Second, req.Timeout)
	assert.True(t, req.Has(CapWebSearch))
	assert.True(t, req.Has(CapXSearch))
	assert.Empty(t, req.Title)

	assert.Contains(t, req.User, "WIKIPEDIA (Establishment):\nWikipedia body text.")
	assert.Contains(t, req.User, "GROKIPEDIA (Galactic):\nGrokipedia body text.")
	assert.Contains(t, req.System, "Forensic Audit Report")
	assert.Contains(t, req.System, "| Theme | Wikipedia Phrasing | Grokipedia Phrasing |")
}

func TestTLDRRequest_Parameters(t *testing.T) {
	req := TLDRRequest(grokRecord())

	assert.Equal(t, KindTLDR, req.Kind)
	assert.InDelta(t, 0.3, req.Temperature, 0.001)
	assert.Equal(t, 150, req.MaxTokens)
	assert.Equal(t, 30*time.Second, req.Timeout)
	assert.Empty(t, req.Capabilities)
	assert.Contains(t, req.User, "Grokipedia body text.")
}

func TestWikiSummaryRequest_Parameters(t *testing.T) {
	req := WikiSummaryRequest(wikiRecord())

	assert.Equal(t, KindWikiSummary, req.Kind)
	assert.Equal(t, 200, req.MaxTokens)
	assert.Equal(t, 30*time.Second, req.Timeout)
	assert.Empty(t, req.Capabilities)
}

func TestRewriteRequest_Parameters(t *testing.T) {
	req := RewriteRequest(wikiRecord(), "https://en.wikipedia.org/wiki/Nikola_Tesla")

	assert.Equal(t, KindRewrite, req.Kind)
	assert.InDelta(t, 0.3, req.Temperature, 0.001)
	assert.Equal(t, 6000, req.MaxTokens)
	assert.Equal(t, "Nikola Tesla", req.Title)
	assert.True(t, req.wantsSearch())
	assert.Contains(t, req.User, `Title: "# Nikola Tesla"`)
	assert.Contains(t, req.User, "- https://en.wikipedia.org/wiki/Nikola_Tesla")
}

func TestRewriteRequest_SourceURLDefaultsToRecordURL(t *testing.T) {
	req := RewriteRequest(wikiRecord(), "")
	assert.Contains(t, req.User, "- https://en.wikipedia.org/wiki/Nikola_Tesla")
}

func TestEditsRequest_Parameters(t *testing.T) {
	req, err := EditsRequest(grokRecord())
	require.NoError(t, err)

	assert.Equal(t, KindEdits, req.Kind)
	assert.InDelta(t, 0.2, req.Temperature, 0.001)
	assert.Equal(t, 4000, req.MaxTokens)
	assert.True(t, req.Has(CapReasoning))
	assert.False(t, req.wantsSearch())
	assert.Contains(t, req.System, "=== EDIT DECISION ===")
	assert.Contains(t, req.System, "=== SUGGESTED EDITS ===")
	assert.Contains(t, req.User, "Grokipedia body text.")
}

func TestEditsRequest_EmptyBody(t *testing.T) {
	_, err := EditsRequest(&domain.ArticleRecord{Title: "Empty"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBiographyRequest_StripsHandlePrefix(t *testing.T) {
	req := BiographyRequest("Jane Doe", "@janedoe", "")

	assert.Equal(t, KindBiography, req.Kind)
	assert.Equal(t, "Jane Doe", req.Title)
	assert.Equal(t, 180*time.Second, req.Timeout)
	assert.Zero(t, req.Temperature)
	assert.Zero(t, req.MaxTokens)
	assert.True(t, req.wantsSearch())

	assert.Contains(t, req.User, "The subject's X username is: @janedoe")
	assert.NotContains(t, req.User, "@@")
	assert.Contains(t, req.User, `"from:@janedoe"`)
}

func TestBiographyRequest_OptionalSections(t *testing.T) {
	plain := BiographyRequest("Jane Doe", "", "")
	assert.NotContains(t, plain.User, "X/TWITTER DEEP DIVE")
	assert.NotContains(t, plain.User, "USER-PROVIDED CONTEXT")

	withContext := BiographyRequest("Jane Doe", "", "Focus on her robotics work.")
	assert.Contains(t, withContext.User, "USER-PROVIDED CONTEXT:\nFocus on her robotics work.")
}

func TestRequestBodiesUseFallbackComposition(t *testing.T) {
	record := &domain.ArticleRecord{
		Title:    "Nikola Tesla",
		Summary:  "Short summary.",
		Sections: []string{"Early life", "Career"},
		Source:   domain.SourceGrokipedia,
	}

	req := TLDRRequest(record)
	assert.True(t, strings.Contains(req.User, "Short summary.\n\nEarly life\nCareer"))
}
