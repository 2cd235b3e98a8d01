package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AppleLamps/YourGrokipedia/internal/config"
	infraerrors "github.com/AppleLamps/YourGrokipedia/internal/platform/errors"
	infrahttp "github.com/AppleLamps/YourGrokipedia/internal/platform/http"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
)

// FirecrawlClient scrapes rendered pages through the Firecrawl API. The zero
// API key disables the client; callers check Enabled before using it.
type FirecrawlClient struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  logger.Logger
}

// ScrapeResult is the markdown content of a scraped page.
type ScrapeResult struct {
	Markdown    string
	Title       string
	Description string
}

// NewFirecrawlClient creates a Firecrawl client.
func NewFirecrawlClient(cfg config.FirecrawlConfig, log logger.Logger) *FirecrawlClient {
	return &FirecrawlClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		client: infrahttp.NewClient(&infrahttp.ClientConfig{
			Timeout: cfg.Timeout,
			// Firecrawl holds the connection while it renders; the header
			// deadline has to track the configured scrape budget.
			ResponseHeaderTimeout: cfg.Timeout,
		}),
		logger:  log,
	}
}

// Enabled reports whether an API key was configured.
func (c *FirecrawlClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	Formats         []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"metadata"`
	} `json:"data"`
}

// Scrape fetches pageURL through Firecrawl and returns its main content as
// markdown.
func (c *FirecrawlClient) Scrape(ctx context.Context, pageURL string) (*ScrapeResult, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("firecrawl is not configured")
	}

	body, err := json.Marshal(scrapeRequest{
		URL:             pageURL,
		OnlyMainContent: true,
		Formats:         []string{"markdown"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal scrape request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scrape %s: %w", pageURL, infraerrors.ParseHTTPError(resp))
	}

	var payload scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode scrape response: %w", err)
	}
	if !payload.Success {
		return nil, fmt.Errorf("scrape %s: firecrawl reported failure", pageURL)
	}

	c.logger.Debug("firecrawl scrape complete",
		logger.String("url", pageURL),
		logger.Duration("duration", time.Since(start)),
		logger.Int("markdown_bytes", len(payload.Data.Markdown)))

	return &ScrapeResult{
		Markdown:    payload.Data.Markdown,
		Title:       payload.Data.Metadata.Title,
		Description: payload.Data.Metadata.Description,
	}, nil
}
