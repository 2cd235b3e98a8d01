package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
service:
  name: "comparator"
  port: 9090
  debug: true
logging:
  level: "debug"
  format: "console"
providers:
  xai_api_key: "xai-test"
  # yaml.v3 decodes durations as integer nanoseconds
  generate_timeout: 90000000000
index:
  links_dir: "/var/lib/comparator/links"
  lightweight: true
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Service.Port != 9090 {
		t.Errorf("Load() cfg.Service.Port = %v, want 9090", cfg.Service.Port)
	}
	if !cfg.Service.Debug {
		t.Error("Load() cfg.Service.Debug = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Load() cfg.Logging.Level = %v, want debug", cfg.Logging.Level)
	}
	if cfg.Providers.XAIAPIKey != "xai-test" {
		t.Errorf("Load() cfg.Providers.XAIAPIKey = %v, want xai-test", cfg.Providers.XAIAPIKey)
	}
	if cfg.Providers.GenerateTimeout != 90*time.Second {
		t.Errorf("Load() cfg.Providers.GenerateTimeout = %v, want 90s", cfg.Providers.GenerateTimeout)
	}
	if cfg.Index.LinksDir != "/var/lib/comparator/links" {
		t.Errorf("Load() cfg.Index.LinksDir = %v, want /var/lib/comparator/links", cfg.Index.LinksDir)
	}
	if !cfg.Index.Lightweight {
		t.Error("Load() cfg.Index.Lightweight = false, want true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, "service:\n  name: comparator\n")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Service.Port != 8080 {
		t.Errorf("Load() cfg.Service.Port = %v, want 8080", cfg.Service.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Load() cfg.Logging.Level = %v, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Load() cfg.Logging.Format = %v, want json", cfg.Logging.Format)
	}
	if cfg.Providers.XAIBaseURL != "https://api.x.ai" {
		t.Errorf("Load() cfg.Providers.XAIBaseURL = %v, want https://api.x.ai", cfg.Providers.XAIBaseURL)
	}
	if cfg.Providers.OpenRouterModel != "x-ai/grok-4.1-fast" {
		t.Errorf("Load() cfg.Providers.OpenRouterModel = %v, want x-ai/grok-4.1-fast", cfg.Providers.OpenRouterModel)
	}
	if cfg.Providers.GenerateTimeout != 120*time.Second {
		t.Errorf("Load() cfg.Providers.GenerateTimeout = %v, want 120s", cfg.Providers.GenerateTimeout)
	}
	if cfg.Providers.BiographyTimeout != 180*time.Second {
		t.Errorf("Load() cfg.Providers.BiographyTimeout = %v, want 180s", cfg.Providers.BiographyTimeout)
	}
	if cfg.Firecrawl.BaseURL != "https://api.firecrawl.dev" {
		t.Errorf("Load() cfg.Firecrawl.BaseURL = %v, want https://api.firecrawl.dev", cfg.Firecrawl.BaseURL)
	}
	if cfg.Wikipedia.BaseURL != "https://en.wikipedia.org" {
		t.Errorf("Load() cfg.Wikipedia.BaseURL = %v, want https://en.wikipedia.org", cfg.Wikipedia.BaseURL)
	}
	if cfg.Grokipedia.Timeout != 30*time.Second {
		t.Errorf("Load() cfg.Grokipedia.Timeout = %v, want 30s", cfg.Grokipedia.Timeout)
	}
	if cfg.Index.LinksDir != "links" {
		t.Errorf("Load() cfg.Index.LinksDir = %v, want links", cfg.Index.LinksDir)
	}
	if cfg.Index.SitemapURL != "https://grokipedia.com/sitemap.xml" {
		t.Errorf("Load() cfg.Index.SitemapURL = %v, want https://grokipedia.com/sitemap.xml", cfg.Index.SitemapURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COMPARATOR_PORT", "9999")
	t.Setenv("XAI_API_KEY", "env-xai-key")
	t.Setenv("LINKS_DIR", "/tmp/links")
	t.Setenv("GROKIPEDIA_LIGHTWEIGHT", "true")

	configPath := writeConfig(t, `
service:
  port: 8081
providers:
  xai_api_key: "file-key"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Service.Port != 9999 {
		t.Errorf("Load() cfg.Service.Port = %v, want env override 9999", cfg.Service.Port)
	}
	if cfg.Providers.XAIAPIKey != "env-xai-key" {
		t.Errorf("Load() cfg.Providers.XAIAPIKey = %v, want env-xai-key", cfg.Providers.XAIAPIKey)
	}
	if cfg.Index.LinksDir != "/tmp/links" {
		t.Errorf("Load() cfg.Index.LinksDir = %v, want /tmp/links", cfg.Index.LinksDir)
	}
	if !cfg.Index.Lightweight {
		t.Error("Load() cfg.Index.Lightweight = false, want true")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yml"); err == nil {
		t.Error("Load() error = nil, want error for nonexistent file")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	configPath := writeConfig(t, "service:\n  port: 99999\n")

	if _, err := Load(configPath); err == nil {
		t.Error("Load() error = nil, want validation error for port 99999")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	configPath := writeConfig(t, "logging:\n  level: verbose\n")

	if _, err := Load(configPath); err == nil {
		t.Error("Load() error = nil, want validation error for bad log level")
	}
}

func TestValidate_NegativeTimeout(t *testing.T) {
	configPath := writeConfig(t, "wikipedia:\n  timeout: -5000000000\n")

	if _, err := Load(configPath); err == nil {
		t.Error("Load() error = nil, want validation error for negative timeout")
	}
}
