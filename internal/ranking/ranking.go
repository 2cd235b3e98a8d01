// Package ranking scores candidate slugs against a search query using the
// tiered heuristic shared with the front-end search box. The scoring
// constants are a compatibility contract: changing them reorders search
// results for existing users.
package ranking

import (
	"sort"
	"strings"
)

// Candidate is a scored slug.
type Candidate struct {
	Slug  string
	Score int
}

// Tier base scores, highest priority first.
const (
	scoreExactMatch    = 10000
	scorePrefixMatch   = 5000
	scoreWholeWord     = 3000
	scoreWordSubstring = 1000
	scorePhraseAnywhere = 500

	// Fallback word-matching contributions.
	scorePerQueryWord  = 100
	scoreWordPrefixBonus = 50

	// Shorter titles are more specific.
	lengthPenaltyPerWord = 2

	// Earlier query occurrence is better.
	positionBonusBase = 100
	positionBonusStep = 20
)

// Rank scores candidates against query and returns them ordered by
// descending score, capped at limit (limit <= 0 means no cap). Candidates
// with no match at all are dropped. Ties preserve input order.
func Rank(query string, slugs []string, limit int) []Candidate {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return nil
	}
	queryWords := strings.Fields(queryLower)

	scored := make([]Candidate, 0, len(slugs))
	for _, slug := range slugs {
		score, ok := scoreSlug(queryLower, queryWords, slug)
		if !ok {
			continue
		}
		scored = append(scored, Candidate{Slug: slug, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// scoreSlug evaluates the tiers in fixed priority order and applies the
// length penalty and position bonus. The second return is false when the
// candidate matches nothing and must be excluded from results.
func scoreSlug(queryLower string, queryWords []string, slug string) (int, bool) {
	slugLower := strings.ToLower(strings.ReplaceAll(slug, "_", " "))
	slugWords := strings.Fields(slugLower)

	var score int
	switch {
	case slugLower == queryLower:
		score = scoreExactMatch
	case strings.HasPrefix(slugLower, queryLower):
		score = scorePrefixMatch
	case containsWord(slugWords, queryLower):
		score = scoreWholeWord
	case anyWordContains(slugWords, queryLower):
		score = scoreWordSubstring
	case strings.Contains(slugLower, queryLower):
		score = scorePhraseAnywhere
	default:
		score = wordMatchScore(queryWords, slugWords)
		if score == 0 {
			return 0, false
		}
	}

	score -= lengthPenaltyPerWord * len(slugWords)
	score += positionBonus(slugWords, queryLower)
	return score, true
}

// wordMatchScore is the fallback tier: each query word found as a substring
// of some slug word contributes scorePerQueryWord, plus scoreWordPrefixBonus
// when the first matching slug word starts with it.
func wordMatchScore(queryWords, slugWords []string) int {
	total := 0
	for _, qw := range queryWords {
		for _, sw := range slugWords {
			if strings.Contains(sw, qw) {
				total += scorePerQueryWord
				if strings.HasPrefix(sw, qw) {
					total += scoreWordPrefixBonus
				}
				break
			}
		}
	}
	return total
}

// positionBonus rewards slugs whose first query-containing word appears
// early: max(0, base - step*index), 0 when no word contains the query.
func positionBonus(slugWords []string, queryLower string) int {
	for i, w := range slugWords {
		if strings.Contains(w, queryLower) {
			bonus := positionBonusBase - positionBonusStep*i
			if bonus < 0 {
				return 0
			}
			return bonus
		}
	}
	return 0
}

func containsWord(words []string, target string) bool {
	for _, w := range words {
		if w == target {
			return true
		}
	}
	return false
}

func anyWordContains(words []string, target string) bool {
	for _, w := range words {
		if strings.Contains(w, target) {
			return true
		}
	}
	return false
}

// Merge combines exact-search results with fuzzy fallback results, keeping
// exact hits first and appending only fuzzy slugs not already present. No
// slug appears twice.
func Merge(exact, fuzzy []string) []string {
	merged := make([]string, 0, len(exact)+len(fuzzy))
	seen := make(map[string]struct{}, len(exact)+len(fuzzy))

	for _, s := range exact {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		merged = append(merged, s)
	}
	for _, s := range fuzzy {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		merged = append(merged, s)
	}
	return merged
}
