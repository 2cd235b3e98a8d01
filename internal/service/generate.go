package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
	"github.com/AppleLamps/YourGrokipedia/internal/llm"
	"github.com/AppleLamps/YourGrokipedia/internal/source"
)

// SummaryResult is a generated summary of one article.
type SummaryResult struct {
	Source  domain.Source
	Title   string
	Summary string
}

// Summarize fetches one side and generates its summary: a TLDR for
// Grokipedia articles, an article-scope summary for Wikipedia articles.
func (c *Comparator) Summarize(ctx context.Context, articleURL string) (*SummaryResult, error) {
	resolved, err := c.resolveArticleURL(ctx, articleURL)
	if err != nil {
		return nil, err
	}
	src := source.Detect(resolved)

	var record *domain.ArticleRecord
	var req llm.Request
	switch src {
	case domain.SourceGrokipedia:
		if record, err = c.grok.Fetch(ctx, resolved); err != nil {
			return nil, &domain.UpstreamError{Op: "fetch grokipedia article", Message: err.Error()}
		}
		if record == nil {
			return nil, fmt.Errorf("%w: grokipedia article", domain.ErrNotFound)
		}
		req = llm.TLDRRequest(record)
	case domain.SourceWikipedia:
		if record, err = c.wiki.Fetch(ctx, resolved); err != nil {
			return nil, &domain.UpstreamError{Op: "fetch wikipedia article", Message: err.Error()}
		}
		if record == nil {
			return nil, fmt.Errorf("%w: wikipedia article", domain.ErrNotFound)
		}
		req = llm.WikiSummaryRequest(record)
	default:
		return nil, fmt.Errorf("%w: unrecognized article source", domain.ErrInvalidInput)
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Source: src, Title: record.Title, Summary: text}, nil
}

// EditsResult carries generated edit suggestions for a Grokipedia article.
type EditsResult struct {
	Slug        string
	Suggestions string
}

// SuggestEdits generates maintenance edit suggestions for the Grokipedia
// article behind articleURL. Wikipedia URLs are converted to their
// Grokipedia counterpart first.
func (c *Comparator) SuggestEdits(ctx context.Context, articleURL string) (*EditsResult, error) {
	grokURL, slug, err := c.resolveToSource(ctx, articleURL, domain.SourceGrokipedia)
	if err != nil {
		return nil, err
	}

	record, err := c.grok.Fetch(ctx, grokURL)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "fetch grokipedia article", Message: err.Error()}
	}
	if record == nil {
		return nil, fmt.Errorf("%w: grokipedia article %q", domain.ErrNotFound, slug)
	}

	req, err := llm.EditsRequest(record)
	if err != nil {
		return nil, err
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &EditsResult{Slug: slug, Suggestions: text}, nil
}

// DraftResult carries a generated Grokipedia-style draft.
type DraftResult struct {
	Title string
	Draft string
}

// GenerateDraft rewrites the Wikipedia article behind articleURL into a
// Grokipedia-style draft. Grokipedia URLs are converted to their Wikipedia
// counterpart first.
func (c *Comparator) GenerateDraft(ctx context.Context, articleURL string) (*DraftResult, error) {
	wikiURL, slug, err := c.resolveToSource(ctx, articleURL, domain.SourceWikipedia)
	if err != nil {
		return nil, err
	}

	record, err := c.wiki.Fetch(ctx, wikiURL)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "fetch wikipedia article", Message: err.Error()}
	}
	if record == nil {
		return nil, fmt.Errorf("%w: wikipedia article %q", domain.ErrNotFound, slug)
	}

	req := llm.RewriteRequest(record, wikiURL)
	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &DraftResult{Title: record.Title, Draft: text}, nil
}

// BiographyResult carries a generated biography.
type BiographyResult struct {
	Name      string
	Biography string
}

// GenerateBiography researches and writes a biography for name. xUsername
// and userContext are optional.
func (c *Comparator) GenerateBiography(ctx context.Context, name, xUsername, userContext string) (*BiographyResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	req := llm.BiographyRequest(name, xUsername, userContext)
	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &BiographyResult{Name: name, Biography: text}, nil
}

// resolveToSource resolves articleURL and converts it to the wanted source's
// canonical page URL, returning the URL and slug.
func (c *Comparator) resolveToSource(ctx context.Context, articleURL string, want domain.Source) (string, string, error) {
	resolved, err := c.resolveArticleURL(ctx, articleURL)
	if err != nil {
		return "", "", err
	}

	slug, ok := source.ExtractSlug(resolved)
	if !ok {
		return "", "", fmt.Errorf("%w: could not extract article slug from %q", domain.ErrInvalidInput, articleURL)
	}

	if want == domain.SourceGrokipedia {
		return source.GrokipediaURL(slug), slug, nil
	}
	return source.WikipediaURL(slug), slug, nil
}

// generate runs a request and maps the result onto the error taxonomy.
func (c *Comparator) generate(ctx context.Context, req llm.Request) (string, error) {
	c.applyTimeout(&req)

	ctx, span := c.telemetry.StartSpan(ctx, "comparator.generate",
		attribute.String("kind", string(req.Kind)))
	defer span.End()

	result := c.generator.Generate(ctx, req)
	switch result.Status {
	case llm.StatusOK:
		return result.Text, nil
	case llm.StatusRateLimited:
		return "", &domain.RateLimitError{RetryAfterSeconds: result.RetryAfterSeconds}
	case llm.StatusEmpty:
		return "", fmt.Errorf("%s: %w", req.Kind, domain.ErrEmptyGeneration)
	default:
		msg := "generation failed"
		if result.Err != nil {
			msg = result.Err.Error()
		}
		return "", &domain.UpstreamError{Op: string(req.Kind), Message: msg}
	}
}
