package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/telemetry"
)

// Status is the terminal outcome of a generation run.
type Status int

const (
	// StatusOK means a provider produced non-empty text.
	StatusOK Status = iota
	// StatusRateLimited means a provider returned 429. The run stops
	// immediately, even when a fallback provider remains.
	StatusRateLimited
	// StatusEmpty means the final attempt parsed to empty text.
	StatusEmpty
	// StatusError means every provider failed (or none are configured).
	StatusError
)

// Result is the outcome of a generation run across the provider chain.
type Result struct {
	Status            Status
	Text              string
	Provider          string
	RetryAfterSeconds int
	Err               error
}

// Orchestrator walks the provider chain sequentially until one succeeds.
type Orchestrator struct {
	providers []Provider
	telemetry *telemetry.Provider
	logger    logger.Logger
}

// NewOrchestrator creates an orchestrator over the given chain.
func NewOrchestrator(providers []Provider, tel *telemetry.Provider, log logger.Logger) *Orchestrator {
	return &Orchestrator{providers: providers, telemetry: tel, logger: log}
}

// Providers returns the names of the configured chain, in attempt order.
func (o *Orchestrator) Providers() []string {
	names := make([]string, 0, len(o.providers))
	for _, p := range o.providers {
		names = append(names, p.Name())
	}
	return names
}

// Generate runs the request through the chain. Providers are tried in order;
// a non-429 failure or an empty result moves to the next provider, a 429
// stops the run even when a fallback remains.
func (o *Orchestrator) Generate(ctx context.Context, req Request) Result {
	if len(o.providers) == 0 {
		return Result{Status: StatusError, Err: fmt.Errorf("no llm providers configured")}
	}

	var lastEmpty bool
	var lastErr error

	for _, provider := range o.providers {
		text, err := o.attempt(ctx, provider, req)

		if err != nil {
			if rle, ok := domain.IsRateLimited(err); ok {
				o.telemetry.RecordRateLimit(provider.Name())
				return Result{
					Status:            StatusRateLimited,
					Provider:          provider.Name(),
					RetryAfterSeconds: rle.RetryAfterSeconds,
					Err:               err,
				}
			}
			o.logger.Warn("provider attempt failed",
				logger.String("provider", provider.Name()),
				logger.String("kind", string(req.Kind)),
				logger.Error(err))
			lastErr = err
			lastEmpty = false
			continue
		}

		if strings.TrimSpace(text) == "" {
			o.logger.Warn("provider returned empty text",
				logger.String("provider", provider.Name()),
				logger.String("kind", string(req.Kind)))
			lastEmpty = true
			continue
		}

		return Result{
			Status:   StatusOK,
			Text:     coerceTitle(text, req.Title),
			Provider: provider.Name(),
		}
	}

	if lastEmpty {
		return Result{Status: StatusEmpty, Err: domain.ErrEmptyGeneration}
	}
	return Result{Status: StatusError, Err: fmt.Errorf("all providers failed: %w", lastErr)}
}

// attempt runs one provider with the request timeout applied and records the
// attempt metric.
func (o *Orchestrator) attempt(ctx context.Context, provider Provider, req Request) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := provider.Generate(ctx, req)
	duration := time.Since(start)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		if _, ok := domain.IsRateLimited(err); ok {
			outcome = "rate_limited"
		}
	case strings.TrimSpace(text) == "":
		outcome = "empty"
	}
	o.telemetry.RecordGenerationAttempt(provider.Name(), string(req.Kind), outcome, duration)

	o.logger.Debug("generation attempt",
		logger.String("provider", provider.Name()),
		logger.String("kind", string(req.Kind)),
		logger.String("outcome", outcome),
		logger.Duration("duration", duration))

	return text, err
}

// coerceTitle prepends a markdown heading when the text does not already
// start with one.
func coerceTitle(text, title string) string {
	if title == "" || strings.HasPrefix(strings.TrimLeft(text, " \t\n"), "#") {
		return text
	}
	return "# " + title + "\n\n" + text
}
