package domain_test

import (
	"testing"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
)

func TestArticleRecord_Body_PrefersFullText(t *testing.T) {
	rec := &domain.ArticleRecord{
		Summary:  "summary text",
		Sections: []string{"History", "Reception"},
		FullText: "the full article body",
	}

	if got := rec.Body(); got != "the full article body" {
		t.Errorf("Body() = %q, want full text", got)
	}
}

func TestArticleRecord_Body_SynthesizesWhenEmpty(t *testing.T) {
	rec := &domain.ArticleRecord{
		Summary:  "summary text",
		Sections: []string{"History", "Reception"},
	}

	want := "summary text\n\nHistory\nReception"
	if got := rec.Body(); got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}
}

func TestArticleRecord_Body_SummaryOnly(t *testing.T) {
	rec := &domain.ArticleRecord{Summary: "just a summary"}

	if got := rec.Body(); got != "just a summary" {
		t.Errorf("Body() = %q, want summary alone", got)
	}
}

func TestArticleRecord_Body_Nil(t *testing.T) {
	var rec *domain.ArticleRecord
	if got := rec.Body(); got != "" {
		t.Errorf("Body() on nil = %q, want empty", got)
	}
}

func TestSource_Other(t *testing.T) {
	if got := domain.SourceGrokipedia.Other(); got != domain.SourceWikipedia {
		t.Errorf("Other() = %q, want wikipedia", got)
	}
	if got := domain.SourceWikipedia.Other(); got != domain.SourceGrokipedia {
		t.Errorf("Other() = %q, want grokipedia", got)
	}
}

func TestSource_Valid(t *testing.T) {
	if !domain.SourceGrokipedia.Valid() || !domain.SourceWikipedia.Valid() {
		t.Error("known sources should be valid")
	}
	if domain.Source("").Valid() || domain.Source("britannica").Valid() {
		t.Error("unknown sources should be invalid")
	}
}
