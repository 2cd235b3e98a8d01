package llm

import (
	"context"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	infrahttp "github.com/AppleLamps/YourGrokipedia/internal/platform/http"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
)

// OpenRouterProvider is the fallback provider. It has no search tools, so
// search capabilities are silently dropped; the reasoning capability maps to
// the same model.
type OpenRouterProvider struct {
	client     *openai.Client
	httpClient *http.Client
	model      string
	logger     logger.Logger
}

// OpenRouterConfig configures the OpenRouter provider. Referer and AppTitle
// are the attribution headers OpenRouter asks integrations to send.
type OpenRouterConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Referer  string
	AppTitle string
}

// attributionTransport injects OpenRouter attribution headers into every
// request without losing the pooled transport underneath.
type attributionTransport struct {
	base     http.RoundTripper
	referer  string
	appTitle string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("HTTP-Referer", t.referer)
	clone.Header.Set("X-Title", t.appTitle)
	return t.base.RoundTrip(clone)
}

// NewOpenRouterProvider creates an OpenRouter provider.
func NewOpenRouterProvider(cfg OpenRouterConfig, log logger.Logger) *OpenRouterProvider {
	// Same deadline discipline as the primary provider: the request context
	// owns the generation budget, the client stays unbounded.
	httpClient := infrahttp.NewClient(&infrahttp.ClientConfig{
		Timeout:               infrahttp.NoTimeout,
		ResponseHeaderTimeout: infrahttp.NoTimeout,
		Transport: func(base http.RoundTripper) http.RoundTripper {
			return &attributionTransport{base: base, referer: cfg.Referer, appTitle: cfg.AppTitle}
		},
	})

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientConfig.HTTPClient = httpClient

	return &OpenRouterProvider{
		client:     openai.NewClientWithConfig(clientConfig),
		httpClient: httpClient,
		model:      cfg.Model,
		logger:     log,
	}
}

// Name returns the provider name.
func (p *OpenRouterProvider) Name() string { return "openrouter" }

// Generate runs the request through OpenRouter chat completions.
func (p *OpenRouterProvider) Generate(ctx context.Context, req Request) (string, error) {
	if req.wantsSearch() {
		p.logger.Debug("openrouter has no search tools, capabilities dropped",
			logger.String("kind", string(req.Kind)))
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", translateOpenAIError("openrouter", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var _ Provider = (*OpenRouterProvider)(nil)
