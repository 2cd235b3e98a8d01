package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AppleLamps/YourGrokipedia/internal/config"
	infragin "github.com/AppleLamps/YourGrokipedia/internal/platform/gin"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/telemetry"
)

// Default timeout values. Writes stay open long enough for biography
// generation.
const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 240 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// Dependencies holds what the server needs beyond the handler.
type Dependencies struct {
	IndexCount    func() (int, error)
	ProviderNames func() []string
	Telemetry     *telemetry.Provider
}

// NewServer creates the HTTP server using the platform gin package.
func NewServer(handler *Handler, cfg *config.Config, deps Dependencies, log logger.Logger) *infragin.Server {
	corsConfig := infragin.CORSConfig{
		Enabled:          cfg.CORS.Enabled,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithCORS(corsConfig).
		WithRoutes(func(router *gin.Engine) {
			SetupServiceRoutes(router, handler, deps.Telemetry)
		})

	if deps.IndexCount != nil {
		builder = builder.WithIndexHealthCheck(deps.IndexCount)
	}
	if deps.ProviderNames != nil {
		builder = builder.WithProviderChainHealthCheck(deps.ProviderNames)
	}

	return builder.Build()
}

// SetupServiceRoutes configures service-specific routes; the platform gin
// package owns the /health routes.
func SetupServiceRoutes(router *gin.Engine, handler *Handler, tel *telemetry.Provider) {
	router.GET("/ready", handler.ReadinessCheck)
	if tel != nil {
		router.GET("/metrics", gin.WrapH(tel.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/search", handler.Search)
		v1.POST("/compare", handler.Compare)
		v1.POST("/summary", handler.Summary)
		v1.POST("/edits", handler.Edits)
		v1.POST("/draft", handler.Draft)
		v1.POST("/biography", handler.Biography)
	}
}
