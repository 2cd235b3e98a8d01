package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on. Wrap them with context
// via fmt.Errorf("...: %w", ...) so errors.Is still matches.
var (
	// ErrNotFound means resolution or fetch could not locate the article.
	// Surfaced as 404; never retried automatically.
	ErrNotFound = errors.New("article not found")

	// ErrInvalidInput means a request field is missing or unparseable.
	// Surfaced as 400; not retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyGeneration means a provider answered successfully but the
	// parsed text was empty. Surfaced as 502, distinct from upstream faults
	// so clients can decide whether a retry makes sense.
	ErrEmptyGeneration = errors.New("generation produced no content")
)

// RateLimitError reports an exhausted provider quota. It deliberately does
// not trigger a fallback attempt: the quota is likely shared across the
// account regardless of endpoint.
type RateLimitError struct {
	// RetryAfterSeconds is the provider's retry hint; 0 means unknown.
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfterSeconds > 0 {
		return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfterSeconds)
	}
	return "rate limited"
}

// UpstreamError reports a fault in an external collaborator: a network
// failure, a non-2xx response, or exhaustion of the provider chain.
// Surfaced as 502; callers may resubmit but the service never retries.
type UpstreamError struct {
	Op      string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IsRateLimited reports whether err carries a RateLimitError, returning it.
func IsRateLimited(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}
