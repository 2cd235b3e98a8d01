package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
	infrahttp "github.com/AppleLamps/YourGrokipedia/internal/platform/http"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
)

// XAIProvider is the primary provider. Requests that need search tools go
// through the xAI Responses API; everything else goes through the
// OpenAI-compatible chat completions endpoint.
type XAIProvider struct {
	apiKey         string
	baseURL        string
	model          string
	reasoningModel string
	chat           *openai.Client
	httpClient     *http.Client
	logger         logger.Logger
}

// XAIConfig configures the xAI provider.
type XAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	ReasoningModel string
}

// NewXAIProvider creates an xAI provider.
func NewXAIProvider(cfg XAIConfig, log logger.Logger) *XAIProvider {
	base := strings.TrimRight(cfg.BaseURL, "/")

	// Generation runs for minutes under the biography budget; the request
	// context carries the deadline, so the client must not impose its own.
	httpClient := infrahttp.NewClient(&infrahttp.ClientConfig{
		Timeout:               infrahttp.NoTimeout,
		ResponseHeaderTimeout: infrahttp.NoTimeout,
	})

	chatConfig := openai.DefaultConfig(cfg.APIKey)
	chatConfig.BaseURL = base + "/v1"
	chatConfig.HTTPClient = httpClient

	return &XAIProvider{
		apiKey:         cfg.APIKey,
		baseURL:        base,
		model:          cfg.Model,
		reasoningModel: cfg.ReasoningModel,
		chat:           openai.NewClientWithConfig(chatConfig),
		httpClient:     httpClient,
		logger:         log,
	}
}

// Name returns the provider name.
func (p *XAIProvider) Name() string { return "xai" }

// Generate runs the request against xAI.
func (p *XAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	if req.wantsSearch() {
		return p.generateWithSearch(ctx, req)
	}
	return p.generateChat(ctx, req)
}

// searchTools is the fixed tool set attached to every search-capable request.
var searchTools = []map[string]any{
	{"type": "web_search", "enable_image_understanding": true},
	{"type": "x_search", "enable_video_understanding": true},
}

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responseInput  `json:"input"`
	Tools []map[string]any `json:"tools"`
}

type responseInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	OutputText string `json:"output_text"`
	Text       string `json:"text"`
}

// generateWithSearch calls the Responses API with the search tool set.
func (p *XAIProvider) generateWithSearch(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(responsesRequest{
		Model: p.model,
		Input: []responseInput{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Tools: searchTools,
	})
	if err != nil {
		return "", fmt.Errorf("marshal responses request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/responses", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create responses request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("xai responses call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", rateLimitFromResponse(resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return "", fmt.Errorf("xai responses status %d: %s", resp.StatusCode, string(snippet))
	}

	var parsed responsesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode responses payload: %w", err)
	}

	return extractResponsesText(parsed), nil
}

// extractResponsesText concatenates every output_text block, falling back to
// the top-level text fields some payloads carry instead.
func extractResponsesText(parsed responsesResponse) string {
	var sb strings.Builder
	for _, item := range parsed.Output {
		if item.Type != "message" {
			continue
		}
		for _, block := range item.Content {
			if block.Type == "output_text" {
				sb.WriteString(block.Text)
			}
		}
	}
	if sb.Len() > 0 {
		return strings.TrimSpace(sb.String())
	}
	if parsed.OutputText != "" {
		return strings.TrimSpace(parsed.OutputText)
	}
	return strings.TrimSpace(parsed.Text)
}

// generateChat calls chat completions through go-openai.
func (p *XAIProvider) generateChat(ctx context.Context, req Request) (string, error) {
	model := p.model
	if req.Has(CapReasoning) {
		model = p.reasoningModel
	}

	resp, err := p.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", translateOpenAIError("xai", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// rateLimitFromResponse builds a typed rate-limit error, reading the
// Retry-After header when present.
func rateLimitFromResponse(resp *http.Response) error {
	hint := 0
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(strings.TrimSpace(header)); err == nil {
			hint = seconds
		}
	}
	return &domain.RateLimitError{RetryAfterSeconds: hint}
}

// translateOpenAIError maps go-openai errors onto the domain taxonomy,
// scanning 429 messages for a retry hint.
func translateOpenAIError(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &domain.RateLimitError{RetryAfterSeconds: retryHintFromMessage(apiErr.Message)}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &domain.RateLimitError{RetryAfterSeconds: retryHintFromMessage(reqErr.Error())}
	}
	return fmt.Errorf("%s chat completion: %w", provider, err)
}

var _ Provider = (*XAIProvider)(nil)
