package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/telemetry"
)

// One provider per test binary: promauto registers in the default registry.
var testTelemetry = telemetry.NewProvider()

type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(_ context.Context, _ Request) (string, error) {
	s.calls++
	return s.text, s.err
}

func newTestOrchestrator(providers ...Provider) *Orchestrator {
	return NewOrchestrator(providers, testTelemetry, logger.NewNop())
}

func TestOrchestrator_FirstProviderWins(t *testing.T) {
	primary := &stubProvider{name: "xai", text: "# Result\n\nbody"}
	fallback := &stubProvider{name: "openrouter", text: "unused"}

	result := newTestOrchestrator(primary, fallback).Generate(context.Background(), Request{Kind: KindTLDR})

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "# Result\n\nbody", result.Text)
	assert.Equal(t, "xai", result.Provider)
	assert.Equal(t, 0, fallback.calls)
}

func TestOrchestrator_FallsBackOnError(t *testing.T) {
	primary := &stubProvider{name: "xai", err: errors.New("boom")}
	fallback := &stubProvider{name: "openrouter", text: "fallback text"}

	result := newTestOrchestrator(primary, fallback).Generate(context.Background(), Request{Kind: KindTLDR})

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "fallback text", result.Text)
	assert.Equal(t, "openrouter", result.Provider)
	assert.Equal(t, 1, primary.calls)
}

func TestOrchestrator_RateLimitStopsTheChain(t *testing.T) {
	primary := &stubProvider{name: "xai", err: &domain.RateLimitError{RetryAfterSeconds: 20}}
	fallback := &stubProvider{name: "openrouter", text: "never reached"}

	result := newTestOrchestrator(primary, fallback).Generate(context.Background(), Request{Kind: KindComparison})

	assert.Equal(t, StatusRateLimited, result.Status)
	assert.Equal(t, 20, result.RetryAfterSeconds)
	assert.Equal(t, "xai", result.Provider)
	assert.Equal(t, 0, fallback.calls)
}

func TestOrchestrator_EmptyTextMovesToNextProvider(t *testing.T) {
	primary := &stubProvider{name: "xai", text: "   \n"}
	fallback := &stubProvider{name: "openrouter", text: "real text"}

	result := newTestOrchestrator(primary, fallback).Generate(context.Background(), Request{Kind: KindTLDR})

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "real text", result.Text)
}

func TestOrchestrator_AllEmpty(t *testing.T) {
	result := newTestOrchestrator(
		&stubProvider{name: "xai", text: ""},
		&stubProvider{name: "openrouter", text: "  "},
	).Generate(context.Background(), Request{Kind: KindTLDR})

	assert.Equal(t, StatusEmpty, result.Status)
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, domain.ErrEmptyGeneration)
}

func TestOrchestrator_AllFailed(t *testing.T) {
	result := newTestOrchestrator(
		&stubProvider{name: "xai", err: errors.New("one")},
		&stubProvider{name: "openrouter", err: errors.New("two")},
	).Generate(context.Background(), Request{Kind: KindTLDR})

	assert.Equal(t, StatusError, result.Status)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "two")
}

func TestOrchestrator_NoProviders(t *testing.T) {
	result := newTestOrchestrator().Generate(context.Background(), Request{Kind: KindTLDR})

	assert.Equal(t, StatusError, result.Status)
	require.Error(t, result.Err)
}

func TestOrchestrator_CoercesTitle(t *testing.T) {
	provider := &stubProvider{name: "xai", text: "Plain opening paragraph."}

	result := newTestOrchestrator(provider).Generate(context.Background(), Request{
		Kind:  KindRewrite,
		Title: "Nikola Tesla",
	})

	assert.Equal(t, "# Nikola Tesla\n\nPlain opening paragraph.", result.Text)
}

func TestOrchestrator_NoCoercionWhenHeadingPresent(t *testing.T) {
	provider := &stubProvider{name: "xai", text: "  \n# Already Titled\n\nbody"}

	result := newTestOrchestrator(provider).Generate(context.Background(), Request{
		Kind:  KindRewrite,
		Title: "Nikola Tesla",
	})

	assert.Equal(t, "  \n# Already Titled\n\nbody", result.Text)
}

func TestOrchestrator_Providers(t *testing.T) {
	o := newTestOrchestrator(&stubProvider{name: "xai"}, &stubProvider{name: "openrouter"})
	assert.Equal(t, []string{"xai", "openrouter"}, o.Providers())
}

func TestRetryHintFromMessage(t *testing.T) {
	assert.Equal(t, 17, retryHintFromMessage("Rate limit reached, try again in 17s."))
	assert.Equal(t, 3, retryHintFromMessage("please try again in 3.5s"))
	assert.Equal(t, 0, retryHintFromMessage("rate limit exceeded"))
}
