// Package slugindex loads the locally synced Grokipedia slug lists and
// answers exact, fuzzy, and best-match lookups over them. The on-disk layout
// is produced by the indexsync tool: one directory per sitemap part, each
// holding a names.txt with one slug per line.
package slugindex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/ranking"
)

// Config controls index construction.
type Config struct {
	// LinksDir is the root directory of the synced slug lists.
	LinksDir string
	// Lightweight disables fuzzy search, trading recall for lower memory
	// and faster startup.
	Lightweight bool
}

// Index is an in-memory slug index. It is immutable after construction and
// safe for concurrent readers.
type Index struct {
	slugs       []string
	normalized  []string
	lightweight bool
}

// New builds an Index from the names.txt files under cfg.LinksDir. Part
// directories are read in sorted order so load order is deterministic.
func New(cfg Config, log logger.Logger) (*Index, error) {
	entries, err := os.ReadDir(cfg.LinksDir)
	if err != nil {
		return nil, fmt.Errorf("read links dir %s: %w", cfg.LinksDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, filepath.Join(cfg.LinksDir, entry.Name(), "names.txt"))
		}
	}
	sort.Strings(names)

	// Tolerate a flat layout with a single names.txt at the root.
	if flat := filepath.Join(cfg.LinksDir, "names.txt"); len(names) == 0 {
		if _, statErr := os.Stat(flat); statErr == nil {
			names = append(names, flat)
		}
	}

	idx := &Index{lightweight: cfg.Lightweight}
	for _, path := range names {
		if err := idx.loadFile(path); err != nil {
			log.Warn("Skipping unreadable slug list",
				logger.String("path", path),
				logger.Error(err),
			)
		}
	}

	if len(idx.slugs) == 0 {
		return nil, fmt.Errorf("no slugs loaded from %s", cfg.LinksDir)
	}

	log.Info("Slug index loaded",
		logger.Int("slug_count", len(idx.slugs)),
		logger.Bool("lightweight", cfg.Lightweight),
	)
	return idx, nil
}

func (i *Index) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		slug := strings.TrimSpace(scanner.Text())
		if slug == "" {
			continue
		}
		i.slugs = append(i.slugs, slug)
		i.normalized = append(i.normalized, normalize(slug))
	}
	return scanner.Err()
}

// Count returns the number of loaded slugs.
func (i *Index) Count() int {
	return len(i.slugs)
}

// SearchExact returns slugs containing query as a case- and
// underscore-insensitive substring, in load order, capped at limit.
func (i *Index) SearchExact(query string, limit int) []string {
	q := normalize(query)
	if q == "" {
		return nil
	}

	var out []string
	for n, norm := range i.normalized {
		if strings.Contains(norm, q) {
			out = append(out, i.slugs[n])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// SearchFuzzy returns the closest slugs by normalized Levenshtein ranking,
// best first, capped at limit. Returns nil in lightweight mode.
func (i *Index) SearchFuzzy(query string, limit int) []string {
	if i.lightweight {
		return nil
	}
	q := normalize(query)
	if q == "" {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(q, i.normalized)
	sort.Sort(ranks)

	out := make([]string, 0, min(len(ranks), limit))
	for _, r := range ranks {
		out = append(out, i.slugs[r.OriginalIndex])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// FindSlug resolves free-form text to the best-matching known slug. It tries
// exact normalized equality, then the top relevance-ranked substring
// candidate, then the minimum Levenshtein distance within a length-relative
// threshold. Returns "" when nothing is close enough.
func (i *Index) FindSlug(raw string) string {
	q := normalize(raw)
	if q == "" {
		return ""
	}

	for n, norm := range i.normalized {
		if norm == q {
			return i.slugs[n]
		}
	}

	const substringScanCap = 50
	if candidates := i.SearchExact(raw, substringScanCap); len(candidates) > 0 {
		if ranked := ranking.Rank(strings.ReplaceAll(q, "_", " "), candidates, 1); len(ranked) > 0 {
			return ranked[0].Slug
		}
		return candidates[0]
	}

	if i.lightweight {
		return ""
	}

	threshold := max(2, len(q)/4)
	bestDistance := threshold + 1
	best := ""
	for n, norm := range i.normalized {
		d := fuzzy.LevenshteinDistance(q, norm)
		if d < bestDistance {
			bestDistance = d
			best = i.slugs[n]
		}
	}
	return best
}

// normalize lower-cases and converts underscores to single spaces so lookups
// ignore slug formatting.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
