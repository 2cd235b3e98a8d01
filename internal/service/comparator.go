// Package service implements the comparator operations: slug search, article
// comparison, summaries, edit suggestions, drafts, and biographies.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
	"github.com/AppleLamps/YourGrokipedia/internal/llm"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/ranking"
	"github.com/AppleLamps/YourGrokipedia/internal/slugindex"
	"github.com/AppleLamps/YourGrokipedia/internal/source"
	"github.com/AppleLamps/YourGrokipedia/internal/telemetry"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	// fuzzyThreshold is the exact-hit count below which fuzzy candidates are
	// merged in.
	fuzzyThreshold = 5
)

// ArticleFetcher retrieves one source's article. A (nil, nil) return means
// the article does not exist.
type ArticleFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*domain.ArticleRecord, error)
}

// Generator runs a generation request through the provider chain.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) llm.Result
	Providers() []string
}

// SlugIndex is the slice of the index manager the service depends on.
type SlugIndex interface {
	Get(ctx context.Context) (*slugindex.Index, error)
	Resolve(ctx context.Context, raw string) string
	Count() (int, error)
}

// Dependencies wires a Comparator.
type Dependencies struct {
	Grokipedia       ArticleFetcher
	Wikipedia        ArticleFetcher
	Generator        Generator
	Index            SlugIndex
	FirecrawlEnabled bool

	// GenerateTimeout and BiographyTimeout override the per-kind request
	// defaults when non-zero.
	GenerateTimeout  time.Duration
	BiographyTimeout time.Duration

	Telemetry *telemetry.Provider
	Logger    logger.Logger
}

// Comparator is the service layer over fetchers, the slug index, and the
// generation pipeline. Operations are sequential; there is no internal
// parallelism.
type Comparator struct {
	grok             ArticleFetcher
	wiki             ArticleFetcher
	generator        Generator
	index            SlugIndex
	firecrawlEnabled bool
	generateTimeout  time.Duration
	biographyTimeout time.Duration
	telemetry        *telemetry.Provider
	logger           logger.Logger
}

// NewComparator creates the service.
func NewComparator(deps Dependencies) *Comparator {
	return &Comparator{
		grok:             deps.Grokipedia,
		wiki:             deps.Wikipedia,
		generator:        deps.Generator,
		index:            deps.Index,
		firecrawlEnabled: deps.FirecrawlEnabled,
		generateTimeout:  deps.GenerateTimeout,
		biographyTimeout: deps.BiographyTimeout,
		telemetry:        deps.Telemetry,
		logger:           deps.Logger,
	}
}

// SearchItem is one ranked search hit.
type SearchItem struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Search finds Grokipedia slugs matching query. An empty query returns empty
// results without touching the index.
func (c *Comparator) Search(ctx context.Context, query string, limit int) ([]SearchItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchItem{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	ctx, span := c.telemetry.StartSpan(ctx, "comparator.search",
		attribute.String("query", query),
		attribute.Int("limit", limit))
	defer span.End()

	idx, err := c.index.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("slug index unavailable: %w", err)
	}
	c.telemetry.RecordSearch()

	candidates := idx.SearchExact(query, limit*3)
	if len(candidates) < fuzzyThreshold {
		candidates = ranking.Merge(candidates, idx.SearchFuzzy(query, limit*5))
	}

	ranked := ranking.Rank(query, candidates, limit)
	items := make([]SearchItem, 0, len(ranked))
	for _, cand := range ranked {
		items = append(items, SearchItem{
			Slug:  cand.Slug,
			Title: strings.ReplaceAll(cand.Slug, "_", " "),
			URL:   source.GrokipediaURL(cand.Slug),
		})
	}

	c.logger.Debug("search complete",
		logger.String("query", query),
		logger.Int("candidates", len(candidates)),
		logger.Int("results", len(items)))
	return items, nil
}

// CompareResult carries both articles and the generated audit. Either side
// may be nil; ComparisonError explains a missing comparison.
type CompareResult struct {
	Grokipedia      *domain.ArticleRecord
	Wikipedia       *domain.ArticleRecord
	GrokipediaURL   string
	WikipediaURL    string
	Comparison      string
	ComparisonError string
}

// Compare resolves articleURL to both encyclopedia articles and generates the
// comparison audit. Partial results are returned rather than failed: a
// missing side or a failed generation sets ComparisonError.
func (c *Comparator) Compare(ctx context.Context, articleURL string) (*CompareResult, error) {
	ctx, span := c.telemetry.StartSpan(ctx, "comparator.compare",
		attribute.String("article_url", articleURL))
	defer span.End()

	resolved, err := c.resolveArticleURL(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	slug, ok := source.ExtractSlug(resolved)
	if !ok {
		return nil, fmt.Errorf("%w: could not extract article slug from %q", domain.ErrInvalidInput, articleURL)
	}

	result := &CompareResult{
		GrokipediaURL: source.GrokipediaURL(slug),
		WikipediaURL:  source.WikipediaURL(slug),
	}

	// The named side is fetched first.
	if source.Detect(resolved) == domain.SourceWikipedia {
		result.Wikipedia = c.fetchSide(ctx, c.wiki, domain.SourceWikipedia, result.WikipediaURL)
		result.Grokipedia = c.fetchSide(ctx, c.grok, domain.SourceGrokipedia, result.GrokipediaURL)
	} else {
		result.Grokipedia = c.fetchSide(ctx, c.grok, domain.SourceGrokipedia, result.GrokipediaURL)
		result.Wikipedia = c.fetchSide(ctx, c.wiki, domain.SourceWikipedia, result.WikipediaURL)
	}

	switch {
	case result.Grokipedia == nil && result.Wikipedia == nil:
		result.ComparisonError = "Grokipedia article not found and Wikipedia article not found"
		return result, nil
	case result.Grokipedia == nil:
		result.ComparisonError = "Grokipedia article not found"
		return result, nil
	case result.Wikipedia == nil:
		result.ComparisonError = "Wikipedia article not found"
		return result, nil
	}

	req := llm.ComparisonRequest(result.Grokipedia, result.Wikipedia)
	c.applyTimeout(&req)

	gen := c.generator.Generate(ctx, req)
	switch gen.Status {
	case llm.StatusOK:
		result.Comparison = gen.Text
	case llm.StatusRateLimited:
		return nil, &domain.RateLimitError{RetryAfterSeconds: gen.RetryAfterSeconds}
	default:
		c.logger.Error("comparison generation failed", logger.Error(gen.Err))
		result.ComparisonError = "comparison generation failed"
	}
	return result, nil
}

// resolveArticleURL accepts an article URL on either source, or free text
// resolved against the slug index to a Grokipedia URL.
func (c *Comparator) resolveArticleURL(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: article_url is required", domain.ErrInvalidInput)
	}
	if source.Detect(input).Valid() {
		return input, nil
	}
	if slug := c.index.Resolve(ctx, input); slug != "" {
		c.logger.Debug("resolved free text to slug",
			logger.String("input", input), logger.String("slug", slug))
		return source.GrokipediaURL(slug), nil
	}
	return "", fmt.Errorf("%w: %q is not an article URL and matches no known article", domain.ErrInvalidInput, input)
}

// fetchSide fetches one article, recording the fetch metric. Errors degrade
// to a missing side.
func (c *Comparator) fetchSide(ctx context.Context, fetcher ArticleFetcher, src domain.Source, pageURL string) *domain.ArticleRecord {
	start := time.Now()
	record, err := fetcher.Fetch(ctx, pageURL)
	duration := time.Since(start)

	switch {
	case err != nil:
		c.telemetry.RecordFetch(string(src), "error", duration)
		c.logger.Warn("article fetch failed",
			logger.String("source", string(src)),
			logger.String("url", pageURL),
			logger.Error(err))
		return nil
	case record == nil:
		c.telemetry.RecordFetch(string(src), "not_found", duration)
		return nil
	default:
		c.telemetry.RecordFetch(string(src), "found", duration)
		return record
	}
}

// applyTimeout overrides the request timeout with the configured one.
func (c *Comparator) applyTimeout(req *llm.Request) {
	switch {
	case req.Kind == llm.KindBiography && c.biographyTimeout > 0:
		req.Timeout = c.biographyTimeout
	case req.Kind != llm.KindBiography && req.Kind != llm.KindTLDR && req.Kind != llm.KindWikiSummary && c.generateTimeout > 0:
		req.Timeout = c.generateTimeout
	}
}

// Health reports service status and the state of its dependencies.
type Health struct {
	Status  string
	Details map[string]any
}

// HealthCheck inspects the index, provider chain, and Firecrawl state.
func (c *Comparator) HealthCheck(_ context.Context) Health {
	status := "healthy"
	details := map[string]any{
		"firecrawl_enabled": c.firecrawlEnabled,
	}

	if count, err := c.index.Count(); err != nil {
		details["index"] = "not loaded"
		status = "degraded"
	} else {
		details["index_slugs"] = count
		c.telemetry.SetIndexSlugCount(count)
	}

	providers := c.generator.Providers()
	details["providers"] = providers
	if len(providers) == 0 {
		status = "degraded"
	}

	return Health{Status: status, Details: details}
}
