package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
)

// ServerBuilder provides a fluent API for building HTTP servers.
type ServerBuilder struct {
	config       *Config
	logger       logger.Logger
	setupRoutes  func(*gin.Engine)
	healthChecks map[string]HealthChecker
}

// NewServerBuilder creates a new server builder with the given configuration.
func NewServerBuilder(serviceName string, port int) *ServerBuilder {
	return &ServerBuilder{
		config:       NewConfig(serviceName, port),
		healthChecks: make(map[string]HealthChecker),
	}
}

// WithLogger sets the logger.
func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.logger = log
	return b
}

// WithDebug enables or disables debug mode.
func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.config.Debug = debug
	return b
}

// WithVersion sets the service version.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.config.ServiceVersion = version
	return b
}

// WithCORS configures CORS settings.
func (b *ServerBuilder) WithCORS(cfg CORSConfig) *ServerBuilder {
	b.config.CORS = cfg
	return b
}

// WithTimeouts sets all timeout values for the HTTP server.
func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	b.config.ReadTimeout = read
	b.config.WriteTimeout = write
	b.config.IdleTimeout = idle
	return b
}

// WithHealthCheck adds a named health check.
func (b *ServerBuilder) WithHealthCheck(name string, checker HealthChecker) *ServerBuilder {
	b.healthChecks[name] = checker
	return b
}

// WithIndexHealthCheck adds a slug-index health check.
func (b *ServerBuilder) WithIndexHealthCheck(countFunc func() (int, error)) *ServerBuilder {
	b.healthChecks["slug_index"] = IndexHealthChecker(countFunc)
	return b
}

// WithProviderChainHealthCheck adds an LLM provider chain health check.
func (b *ServerBuilder) WithProviderChainHealthCheck(providerNames func() []string) *ServerBuilder {
	b.healthChecks["llm_providers"] = ProviderChainHealthChecker(providerNames)
	return b
}

// WithRoutes sets the route setup function.
func (b *ServerBuilder) WithRoutes(setupRoutes func(*gin.Engine)) *ServerBuilder {
	b.setupRoutes = setupRoutes
	return b
}

// Build creates the server with all configured options.
func (b *ServerBuilder) Build() *Server {
	if b.logger == nil {
		b.logger = logger.Must(logger.Config{
			Level:       "info",
			Development: b.config.Debug,
		})
	}

	// Wrapper that registers health routes before service-specific routes.
	wrappedSetup := func(router *gin.Engine) {
		if len(b.healthChecks) > 0 {
			RegisterHealthRoutesWithChecks(router, HealthOptions{
				ServiceName:    b.config.ServiceName,
				ServiceVersion: b.config.ServiceVersion,
				Checks:         b.healthChecks,
			})
		} else {
			RegisterHealthRoutes(router, b.config.ServiceName, b.config.ServiceVersion)
		}

		if b.setupRoutes != nil {
			b.setupRoutes(router)
		}
	}

	return NewServer(b.config, b.logger, wrappedSetup)
}
