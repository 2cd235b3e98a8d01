// Package indexsync downloads the Grokipedia sitemap index and materializes
// the local slug lists that the slugindex package reads at runtime: one
// directory per sitemap part under the links dir, each holding urls.txt and
// names.txt.
package indexsync

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	infrahttp "github.com/AppleLamps/YourGrokipedia/internal/platform/http"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/retry"
)

const (
	requestTimeout  = 20 * time.Second
	maxSitemapBytes = 64 << 20
)

// Config controls a sync run.
type Config struct {
	// SitemapURL is the sitemap index to download.
	SitemapURL string
	// LinksDir is the output root. Part directories are created under it.
	LinksDir string
}

// Result summarizes a completed sync run.
type Result struct {
	// Parts is the number of part sitemaps written.
	Parts int
	// FailedParts counts part sitemaps that could not be fetched or written.
	FailedParts int
	// Slugs is the total slug count across all written parts.
	Slugs int
}

// Syncer downloads sitemaps and writes slug lists.
type Syncer struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// NewSyncer creates a Syncer using the pooled HTTP client.
func NewSyncer(cfg Config, log logger.Logger) *Syncer {
	return &Syncer{
		cfg:    cfg,
		client: infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: requestTimeout}),
		log:    log,
	}
}

type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// Run fetches the sitemap index and writes every part's slug list. An
// unreachable index is fatal; a failed part is skipped and counted.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	body, err := s.fetch(ctx, s.cfg.SitemapURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap index %s: %w", s.cfg.SitemapURL, err)
	}

	parts, err := partLocations(body, s.cfg.SitemapURL)
	if err != nil {
		return nil, err
	}
	s.log.Info("Sitemap index fetched",
		logger.String("url", s.cfg.SitemapURL),
		logger.Int("parts", len(parts)),
	)

	result := &Result{}
	for _, part := range parts {
		count, partErr := s.syncPart(ctx, part)
		if partErr != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			s.log.Warn("Skipping sitemap part",
				logger.String("url", part),
				logger.Error(partErr),
			)
			result.FailedParts++
			continue
		}
		result.Parts++
		result.Slugs += count
	}

	s.log.Info("Sitemap sync complete",
		logger.Int("parts", result.Parts),
		logger.Int("failed_parts", result.FailedParts),
		logger.Int("slugs", result.Slugs),
	)
	return result, nil
}

// partLocations lists the part sitemap URLs in body. A body that is itself a
// urlset rather than a sitemapindex counts as its own single part.
func partLocations(body []byte, indexURL string) ([]string, error) {
	var index sitemapIndex
	if err := xml.Unmarshal(body, &index); err == nil && len(index.Sitemaps) > 0 {
		parts := make([]string, 0, len(index.Sitemaps))
		for _, ref := range index.Sitemaps {
			if loc := strings.TrimSpace(ref.Loc); loc != "" {
				parts = append(parts, loc)
			}
		}
		return parts, nil
	}

	var set urlSet
	if err := xml.Unmarshal(body, &set); err == nil && len(set.URLs) > 0 {
		return []string{indexURL}, nil
	}

	return nil, fmt.Errorf("sitemap index %s: no part sitemaps found", indexURL)
}

// syncPart downloads one part sitemap and writes its urls.txt and names.txt,
// returning the slug count.
func (s *Syncer) syncPart(ctx context.Context, partURL string) (int, error) {
	body, err := s.fetch(ctx, partURL)
	if err != nil {
		return 0, err
	}

	var set urlSet
	if err = xml.Unmarshal(body, &set); err != nil {
		return 0, fmt.Errorf("parse sitemap: %w", err)
	}

	urls := make([]string, 0, len(set.URLs))
	slugs := make([]string, 0, len(set.URLs))
	for _, entry := range set.URLs {
		loc := strings.TrimSpace(entry.Loc)
		slug, ok := pageSlug(loc)
		if !ok {
			continue
		}
		urls = append(urls, loc)
		slugs = append(slugs, slug)
	}

	name := partName(partURL)
	if err = s.writePart(name, urls, slugs); err != nil {
		return 0, err
	}

	s.log.Info("Sitemap part synced",
		logger.String("part", name),
		logger.Int("slugs", len(slugs)),
	)
	return len(slugs), nil
}

func (s *Syncer) writePart(name string, urls, slugs []string) error {
	dir := filepath.Join(s.cfg.LinksDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create part dir: %w", err)
	}
	if err := writeLines(filepath.Join(dir, "urls.txt"), urls); err != nil {
		return err
	}
	return writeLines(filepath.Join(dir, "names.txt"), slugs)
}

func writeLines(path string, lines []string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// errTransientStatus marks 5xx and 429 responses as worth retrying.
var errTransientStatus = errors.New("transient upstream status")

// fetch downloads url with backoff on transport failures and transient
// statuses. Other non-200 statuses fail immediately.
func (s *Syncer) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	cfg := retry.DefaultConfig()
	cfg.IsRetryable = func(err error) bool {
		return errors.Is(err, errTransientStatus) || retry.DefaultIsRetryable(err)
	}

	var body []byte
	err := retry.Retry(ctx, cfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "comparator-indexsync/1.0")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode >= http.StatusInternalServerError ||
				resp.StatusCode == http.StatusTooManyRequests {
				return fmt.Errorf("%w: %d", errTransientStatus, resp.StatusCode)
			}
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes))
		return err
	})
	return body, err
}

// pageSlug extracts the slug from an article page URL: the path segment after
// /page/. Non-page URLs return false.
func pageSlug(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	const marker = "/page/"
	n := strings.Index(parsed.Path, marker)
	if n < 0 {
		return "", false
	}

	slug := strings.Trim(parsed.Path[n+len(marker):], "/")
	if slug == "" {
		return "", false
	}
	if decoded, decErr := url.PathUnescape(slug); decErr == nil {
		slug = decoded
	}
	return slug, true
}

// partName derives the output directory name from a part sitemap URL: the
// file name without its .xml (or .xml.gz) suffix.
func partName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	name := rawURL
	if err == nil {
		name = filepath.Base(parsed.Path)
	}
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".xml")
	if name == "" || name == "." || name == "/" {
		name = "sitemap"
	}
	return name
}
