package llm

import (
	"github.com/AppleLamps/YourGrokipedia/internal/config"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
)

// NewChain builds the provider chain from configured credentials: xAI first,
// OpenRouter as fallback. Providers without keys are skipped; the chain may
// be empty. Built once at startup and never mutated.
func NewChain(cfg config.ProvidersConfig, log logger.Logger) []Provider {
	var chain []Provider

	if cfg.XAIAPIKey != "" {
		chain = append(chain, NewXAIProvider(XAIConfig{
			APIKey:         cfg.XAIAPIKey,
			BaseURL:        cfg.XAIBaseURL,
			Model:          cfg.XAIModel,
			ReasoningModel: cfg.XAIReasoningModel,
		}, log))
	}

	if cfg.OpenRouterAPIKey != "" {
		chain = append(chain, NewOpenRouterProvider(OpenRouterConfig{
			APIKey:   cfg.OpenRouterAPIKey,
			BaseURL:  cfg.OpenRouterBaseURL,
			Model:    cfg.OpenRouterModel,
			Referer:  cfg.Referer,
			AppTitle: cfg.AppTitle,
		}, log))
	}

	if len(chain) == 0 {
		log.Warn("no llm provider keys configured, generation is disabled")
	}
	return chain
}
