// Package fetcher retrieves article content from Grokipedia and Wikipedia.
//
// Both fetchers share the same contract: a missing article is reported as
// (nil, nil) so callers can distinguish "page does not exist" from transport
// failures.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AppleLamps/YourGrokipedia/internal/config"
	"github.com/AppleLamps/YourGrokipedia/internal/domain"
	infraerrors "github.com/AppleLamps/YourGrokipedia/internal/platform/errors"
	infrahttp "github.com/AppleLamps/YourGrokipedia/internal/platform/http"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/source"
)

const userAgent = "Grokipedia-Comparator/1.0"

// sectionBlocklist holds section headings that carry no article content.
var sectionBlocklist = map[string]struct{}{
	"references":     {},
	"external links": {},
	"see also":       {},
	"notes":          {},
}

// WikipediaClient fetches article content from the Wikipedia REST and Action
// APIs.
type WikipediaClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  logger.Logger
}

// NewWikipediaClient creates a Wikipedia client.
func NewWikipediaClient(cfg config.WikipediaConfig, log logger.Logger) *WikipediaClient {
	return &WikipediaClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		client:  infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: cfg.Timeout}),
		logger:  log,
	}
}

// Fetch retrieves the Wikipedia article behind pageURL. Returns (nil, nil)
// when the article does not exist or the URL carries no recognizable slug.
func (c *WikipediaClient) Fetch(ctx context.Context, pageURL string) (*domain.ArticleRecord, error) {
	slug, ok := source.ExtractSlug(pageURL)
	if !ok {
		c.logger.Warn("no slug in wikipedia url", logger.String("url", pageURL))
		return nil, nil
	}

	summary, err := c.fetchSummary(ctx, slug)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, nil
	}

	record := &domain.ArticleRecord{
		Title:   summary.Title,
		Summary: summary.Extract,
		URL:     source.WikipediaURL(slug),
		Source:  domain.SourceWikipedia,
	}

	// Sections and the full plaintext extract are best effort; the summary
	// alone is enough for a comparison.
	sections, err := c.fetchSections(ctx, slug)
	if err != nil {
		c.logger.Warn("fetch wikipedia sections failed",
			logger.String("slug", slug), logger.Error(err))
	} else {
		record.Sections = sections
	}

	fullText, err := c.fetchExtract(ctx, slug)
	if err != nil {
		c.logger.Warn("fetch wikipedia extract failed",
			logger.String("slug", slug), logger.Error(err))
	} else {
		record.FullText = fullText
	}

	return record, nil
}

type wikiSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

func (c *WikipediaClient) fetchSummary(ctx context.Context, slug string) (*wikiSummary, error) {
	// Each API call gets the full configured budget, so a slow endpoint does
	// not starve the ones after it.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(slug)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch wikipedia summary: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch wikipedia summary: %w", infraerrors.ParseHTTPError(resp))
	}

	var summary wikiSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode wikipedia summary: %w", err)
	}
	return &summary, nil
}

func (c *WikipediaClient) fetchSections(ctx context.Context, slug string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", slug)
	params.Set("prop", "sections")
	params.Set("format", "json")

	resp, err := c.get(ctx, c.baseURL+"/w/api.php?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, infraerrors.ParseHTTPError(resp)
	}

	var payload struct {
		Parse struct {
			Sections []struct {
				Line string `json:"line"`
			} `json:"sections"`
		} `json:"parse"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}

	all := payload.Parse.Sections
	if len(all) > 10 {
		all = all[:10]
	}

	var sections []string
	for _, s := range all {
		if _, blocked := sectionBlocklist[strings.ToLower(s.Line)]; blocked {
			continue
		}
		sections = append(sections, s.Line)
		if len(sections) == domain.MaxSections {
			break
		}
	}
	return sections, nil
}

func (c *WikipediaClient) fetchExtract(ctx context.Context, slug string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", slug)
	params.Set("format", "json")

	resp, err := c.get(ctx, c.baseURL+"/w/api.php?"+params.Encode())
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", infraerrors.ParseHTTPError(resp)
	}

	var payload struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode extract: %w", err)
	}

	for _, page := range payload.Query.Pages {
		if page.Extract != "" {
			return page.Extract, nil
		}
	}
	return "", nil
}

func (c *WikipediaClient) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	return c.client.Do(req)
}
