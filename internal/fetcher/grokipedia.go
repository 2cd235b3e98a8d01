package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/AppleLamps/YourGrokipedia/internal/config"
	"github.com/AppleLamps/YourGrokipedia/internal/domain"
	infraerrors "github.com/AppleLamps/YourGrokipedia/internal/platform/errors"
	infrahttp "github.com/AppleLamps/YourGrokipedia/internal/platform/http"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/source"
)

// titleSuffixes are site-name decorations stripped from scraped page titles.
var titleSuffixes = []string{" | Grokipedia", " - Grokipedia"}

// SlugResolver re-resolves a slug against the local index when a direct fetch
// 404s. An empty result means no better candidate exists.
type SlugResolver interface {
	Resolve(ctx context.Context, raw string) string
}

// GrokipediaFetcher fetches Grokipedia articles, preferring Firecrawl when it
// is configured and falling back to direct HTML scraping.
type GrokipediaFetcher struct {
	baseURL   string
	timeout   time.Duration
	firecrawl *FirecrawlClient
	resolver  SlugResolver
	client    *http.Client
	logger    logger.Logger
}

// NewGrokipediaFetcher creates a Grokipedia fetcher. firecrawl and resolver
// may be nil.
func NewGrokipediaFetcher(cfg config.GrokipediaConfig, firecrawl *FirecrawlClient, resolver SlugResolver, log logger.Logger) *GrokipediaFetcher {
	return &GrokipediaFetcher{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   cfg.Timeout,
		firecrawl: firecrawl,
		resolver:  resolver,
		client:    infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: cfg.Timeout}),
		logger:    log,
	}
}

// Fetch retrieves the Grokipedia article behind pageURL. Returns (nil, nil)
// when the article does not exist, after one attempt to re-resolve the slug
// against the local index.
func (f *GrokipediaFetcher) Fetch(ctx context.Context, pageURL string) (*domain.ArticleRecord, error) {
	slug, ok := source.ExtractSlug(pageURL)
	if !ok {
		f.logger.Warn("no slug in grokipedia url", logger.String("url", pageURL))
		return nil, nil
	}

	if f.firecrawl.Enabled() {
		record, err := f.fetchViaFirecrawl(ctx, slug)
		if err != nil {
			f.logger.Warn("firecrawl fetch failed, falling back to direct",
				logger.String("slug", slug), logger.Error(err))
		} else if record != nil {
			return record, nil
		}
	}

	record, notFound, err := f.fetchDirect(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !notFound {
		return record, nil
	}

	// One retry with a corrected slug from the local index.
	if f.resolver != nil {
		if resolved := f.resolver.Resolve(ctx, slug); resolved != "" && resolved != slug {
			f.logger.Info("retrying with resolved slug",
				logger.String("slug", slug), logger.String("resolved", resolved))
			record, notFound, err = f.fetchDirect(ctx, resolved)
			if err != nil {
				return nil, err
			}
			if !notFound {
				return record, nil
			}
		}
	}
	return nil, nil
}

func (f *GrokipediaFetcher) fetchViaFirecrawl(ctx context.Context, slug string) (*domain.ArticleRecord, error) {
	result, err := f.firecrawl.Scrape(ctx, f.pageEndpoint(slug))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Markdown) == "" {
		return nil, nil
	}

	title := cleanTitle(result.Title)
	if title == "" {
		title = strings.ReplaceAll(slug, "_", " ")
	}

	markdown := CleanMarkdown(result.Markdown, title)
	summary := firstSummaryLine(markdown)
	if summary == "" {
		summary = result.Description
	}

	return &domain.ArticleRecord{
		Title:    title,
		Summary:  summary,
		FullText: markdown,
		URL:      source.GrokipediaURL(slug),
		Source:   domain.SourceGrokipedia,
	}, nil
}

// fetchDirect scrapes the article HTML without Firecrawl. notFound is true
// when the page 404s.
func (f *GrokipediaFetcher) fetchDirect(ctx context.Context, slug string) (record *domain.ArticleRecord, notFound bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.pageEndpoint(slug), nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetch grokipedia page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, true, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("fetch grokipedia page: %w", infraerrors.ParseHTTPError(resp))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("parse grokipedia page: %w", err)
	}

	record = f.extract(doc, slug)
	return record, false, nil
}

func (f *GrokipediaFetcher) extract(doc *goquery.Document, slug string) *domain.ArticleRecord {
	title := cleanTitle(doc.Find("title").First().Text())
	if title == "" {
		if og, exists := doc.Find(`meta[property="og:title"]`).Attr("content"); exists {
			title = cleanTitle(og)
		}
	}
	if title == "" {
		title = strings.ReplaceAll(slug, "_", " ")
	}

	var sections []string
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		heading := strings.TrimSpace(s.Text())
		if heading == "" || len(sections) >= domain.MaxSections {
			return
		}
		if _, blocked := sectionBlocklist[strings.ToLower(heading)]; blocked {
			return
		}
		sections = append(sections, heading)
	})

	var summary string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len([]rune(text)) > 100 {
			summary = truncateRunes(text, 500)
			return false
		}
		return true
	})

	doc.Find("script, style, nav, header, footer").Remove()
	body := doc.Find("article")
	if body.Length() == 0 {
		body = doc.Find("main")
	}
	if body.Length() == 0 {
		body = doc.Find("body")
	}
	fullText := strings.TrimSpace(body.Text())

	return &domain.ArticleRecord{
		Title:    title,
		Summary:  summary,
		Sections: sections,
		FullText: fullText,
		URL:      source.GrokipediaURL(slug),
		Source:   domain.SourceGrokipedia,
	}
}

func (f *GrokipediaFetcher) pageEndpoint(slug string) string {
	return f.baseURL + "/page/" + url.PathEscape(slug)
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, suffix := range titleSuffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	return strings.TrimSpace(title)
}
