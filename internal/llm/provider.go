// Package llm drives text generation through a chain of hosted model
// providers: xAI first, OpenRouter as fallback.
package llm

import (
	"context"
	"regexp"
	"strconv"
	"time"
)

// Capability tags a request with a feature the serving provider must support.
type Capability string

const (
	// CapWebSearch asks for live web search during generation.
	CapWebSearch Capability = "web_search"
	// CapXSearch asks for X post search during generation.
	CapXSearch Capability = "x_search"
	// CapReasoning asks for the provider's reasoning model variant.
	CapReasoning Capability = "reasoning"
)

// Kind names a generation task, used for metrics and logging labels.
type Kind string

const (
	KindComparison  Kind = "comparison"
	KindTLDR        Kind = "tldr"
	KindWikiSummary Kind = "wiki_summary"
	KindRewrite     Kind = "rewrite"
	KindEdits       Kind = "edits"
	KindBiography   Kind = "biography"
)

// Request is a single generation task handed to a provider.
type Request struct {
	Kind         Kind
	System       string
	User         string
	Capabilities []Capability

	// Temperature and MaxTokens are zero when the provider default applies.
	Temperature float32
	MaxTokens   int

	// Timeout bounds the attempt; zero means the caller's context governs.
	Timeout time.Duration

	// Title, when set, is prepended as a markdown heading if the generated
	// text does not already start with one.
	Title string
}

// Has reports whether the request carries the given capability.
func (r Request) Has(c Capability) bool {
	for _, have := range r.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// wantsSearch reports whether the request needs either search tool.
func (r Request) wantsSearch() bool {
	return r.Has(CapWebSearch) || r.Has(CapXSearch)
}

// Provider generates text for a request. Implementations return a typed
// rate-limit error from the domain package on HTTP 429.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

var retryAfterMessageRe = regexp.MustCompile(`try again in (\d+)(?:\.\d+)?s`)

// retryHintFromMessage scans a provider error message for a "try again in Ns"
// style hint. Returns 0 when no hint is present.
func retryHintFromMessage(msg string) int {
	m := retryAfterMessageRe.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	seconds, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return seconds
}
