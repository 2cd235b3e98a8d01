// Package config holds the comparator service configuration, loaded from a
// YAML file with environment overrides.
package config

import (
	"fmt"
	"time"

	infraconfig "github.com/AppleLamps/YourGrokipedia/internal/platform/config"
)

// Config holds all configuration for the comparator service.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Logging    LoggingConfig    `yaml:"logging"`
	CORS       CORSConfig       `yaml:"cors"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Firecrawl  FirecrawlConfig  `yaml:"firecrawl"`
	Wikipedia  WikipediaConfig  `yaml:"wikipedia"`
	Grokipedia GrokipediaConfig `yaml:"grokipedia"`
	Index      IndexConfig      `yaml:"index"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `yaml:"port" env:"COMPARATOR_PORT"`
	Debug   bool   `yaml:"debug" env:"COMPARATOR_DEBUG"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins" env:"CORS_ORIGINS"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// ProvidersConfig holds LLM provider configuration. Either key may be empty;
// the provider chain is built from whichever credentials exist.
type ProvidersConfig struct {
	XAIAPIKey         string `yaml:"xai_api_key" env:"XAI_API_KEY"`
	XAIBaseURL        string `yaml:"xai_base_url"`
	XAIModel          string `yaml:"xai_model"`
	XAIReasoningModel string `yaml:"xai_reasoning_model"`

	OpenRouterAPIKey  string `yaml:"openrouter_api_key" env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `yaml:"openrouter_base_url"`
	OpenRouterModel   string `yaml:"openrouter_model"`

	// Referer and AppTitle are OpenRouter attribution headers.
	Referer  string `yaml:"referer"`
	AppTitle string `yaml:"app_title"`

	GenerateTimeout  time.Duration `yaml:"generate_timeout"`
	BiographyTimeout time.Duration `yaml:"biography_timeout"`
}

// FirecrawlConfig holds Firecrawl scraping configuration. An empty API key
// disables Firecrawl and the Grokipedia fetcher falls back to direct HTML.
type FirecrawlConfig struct {
	APIKey  string        `yaml:"api_key" env:"FIRECRAWL_API_KEY"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// WikipediaConfig holds the Wikipedia API configuration.
type WikipediaConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// GrokipediaConfig holds the Grokipedia host configuration.
type GrokipediaConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// IndexConfig holds the local slug index configuration.
type IndexConfig struct {
	LinksDir    string `yaml:"links_dir" env:"LINKS_DIR"`
	Lightweight bool   `yaml:"lightweight" env:"GROKIPEDIA_LIGHTWEIGHT"`
	WarmOnStart bool   `yaml:"warm_on_start"`
	SitemapURL  string `yaml:"sitemap_url" env:"SITEMAP_URL"`
}

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "comparator"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8080
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	if cfg.Providers.XAIBaseURL == "" {
		cfg.Providers.XAIBaseURL = "https://api.x.ai"
	}
	if cfg.Providers.XAIModel == "" {
		cfg.Providers.XAIModel = "grok-4-1-fast"
	}
	if cfg.Providers.XAIReasoningModel == "" {
		cfg.Providers.XAIReasoningModel = "grok-4-1-fast-reasoning"
	}
	if cfg.Providers.OpenRouterBaseURL == "" {
		cfg.Providers.OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Providers.OpenRouterModel == "" {
		cfg.Providers.OpenRouterModel = "x-ai/grok-4.1-fast"
	}
	if cfg.Providers.Referer == "" {
		cfg.Providers.Referer = "http://localhost:8080"
	}
	if cfg.Providers.AppTitle == "" {
		cfg.Providers.AppTitle = "Article Comparator"
	}
	if cfg.Providers.GenerateTimeout == 0 {
		cfg.Providers.GenerateTimeout = 120 * time.Second
	}
	if cfg.Providers.BiographyTimeout == 0 {
		cfg.Providers.BiographyTimeout = 180 * time.Second
	}

	if cfg.Firecrawl.BaseURL == "" {
		cfg.Firecrawl.BaseURL = "https://api.firecrawl.dev"
	}
	if cfg.Firecrawl.Timeout == 0 {
		cfg.Firecrawl.Timeout = 60 * time.Second
	}

	if cfg.Wikipedia.BaseURL == "" {
		cfg.Wikipedia.BaseURL = "https://en.wikipedia.org"
	}
	if cfg.Wikipedia.Timeout == 0 {
		cfg.Wikipedia.Timeout = 30 * time.Second
	}

	if cfg.Grokipedia.BaseURL == "" {
		cfg.Grokipedia.BaseURL = "https://grokipedia.com"
	}
	if cfg.Grokipedia.Timeout == 0 {
		cfg.Grokipedia.Timeout = 30 * time.Second
	}

	if cfg.Index.LinksDir == "" {
		cfg.Index.LinksDir = "links"
	}
	if cfg.Index.SitemapURL == "" {
		cfg.Index.SitemapURL = "https://grokipedia.com/sitemap.xml"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := infraconfig.ValidateLogFormat(c.Logging.Format); err != nil {
		return err
	}
	if c.Index.LinksDir == "" {
		return &infraconfig.ValidationError{Field: "index.links_dir", Message: "is required"}
	}
	if c.Providers.GenerateTimeout <= 0 {
		return &infraconfig.ValidationError{Field: "providers.generate_timeout", Message: "must be positive"}
	}
	if c.Providers.BiographyTimeout <= 0 {
		return &infraconfig.ValidationError{Field: "providers.biography_timeout", Message: "must be positive"}
	}
	if c.Wikipedia.Timeout <= 0 {
		return &infraconfig.ValidationError{Field: "wikipedia.timeout", Message: "must be positive"}
	}
	if c.Grokipedia.Timeout <= 0 {
		return &infraconfig.ValidationError{Field: "grokipedia.timeout", Message: "must be positive"}
	}
	if c.Firecrawl.Timeout <= 0 {
		return &infraconfig.ValidationError{Field: "firecrawl.timeout", Message: "must be positive"}
	}
	return nil
}
