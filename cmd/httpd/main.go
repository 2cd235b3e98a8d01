package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AppleLamps/YourGrokipedia/internal/api"
	"github.com/AppleLamps/YourGrokipedia/internal/config"
	"github.com/AppleLamps/YourGrokipedia/internal/fetcher"
	"github.com/AppleLamps/YourGrokipedia/internal/llm"
	infraconfig "github.com/AppleLamps/YourGrokipedia/internal/platform/config"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/profiling"
	"github.com/AppleLamps/YourGrokipedia/internal/service"
	"github.com/AppleLamps/YourGrokipedia/internal/slugindex"
	"github.com/AppleLamps/YourGrokipedia/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Start profiling server (if enabled)
	profiling.StartPprofServer()

	// Load configuration
	configPath := infraconfig.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Add service name to all log entries
	log = log.With(logger.String("service", "comparator-service"))

	log.Info("Starting comparator service",
		logger.String("name", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	// Start continuous profiling (if enabled)
	profiler, profErr := profiling.StartPyroscope(cfg.Service.Name)
	if profErr != nil {
		log.Warn("Continuous profiling failed to start", logger.Error(profErr))
	}
	if profiler != nil {
		defer func() { _ = profiler.Stop() }()
	}

	tel := telemetry.NewProvider()

	// Initialize the slug index manager
	indexManager := slugindex.NewManager(slugindex.Config{
		LinksDir:    cfg.Index.LinksDir,
		Lightweight: cfg.Index.Lightweight,
	}, log)
	if cfg.Index.WarmOnStart {
		indexManager.Warm(context.Background())
	}
	if count, countErr := indexManager.Count(); countErr == nil {
		tel.SetIndexSlugCount(count)
	}

	// Initialize article fetchers
	firecrawl := fetcher.NewFirecrawlClient(cfg.Firecrawl, log)
	if firecrawl.Enabled() {
		log.Info("Firecrawl scraping enabled")
	} else {
		log.Info("Firecrawl disabled, using direct HTML fetching")
	}
	wikipedia := fetcher.NewWikipediaClient(cfg.Wikipedia, log)
	grokipedia := fetcher.NewGrokipediaFetcher(cfg.Grokipedia, firecrawl, indexManager, log)

	// Build the provider chain and orchestrator
	providers := llm.NewChain(cfg.Providers, log)
	orchestrator := llm.NewOrchestrator(providers, tel, log)
	log.Info("Provider chain initialized",
		logger.Int("providers", len(providers)),
		logger.Strings("names", orchestrator.Providers()),
	)

	// Initialize the comparator service
	comparator := service.NewComparator(service.Dependencies{
		Grokipedia:       grokipedia,
		Wikipedia:        wikipedia,
		Generator:        orchestrator,
		Index:            indexManager,
		FirecrawlEnabled: firecrawl.Enabled(),
		GenerateTimeout:  cfg.Providers.GenerateTimeout,
		BiographyTimeout: cfg.Providers.BiographyTimeout,
		Telemetry:        tel,
		Logger:           log,
	})

	// Initialize API handler and server
	handler := api.NewHandler(comparator)
	server := api.NewServer(handler, cfg, api.Dependencies{
		IndexCount:    indexManager.Count,
		ProviderNames: orchestrator.Providers,
		Telemetry:     tel,
	}, log)

	log.Info("Comparator service starting", logger.Int("port", cfg.Service.Port))

	// Run server with graceful shutdown
	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return 1
	}

	log.Info("Comparator service exited cleanly")
	return 0
}
