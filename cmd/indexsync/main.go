// Command indexsync downloads the Grokipedia sitemap and writes the local
// slug lists the service searches at runtime. Run it before first start and
// whenever the index should be refreshed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AppleLamps/YourGrokipedia/internal/config"
	"github.com/AppleLamps/YourGrokipedia/internal/indexsync"
	infraconfig "github.com/AppleLamps/YourGrokipedia/internal/platform/config"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := infraconfig.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()
	log = log.With(logger.String("service", "indexsync"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting sitemap sync",
		logger.String("sitemap_url", cfg.Index.SitemapURL),
		logger.String("links_dir", cfg.Index.LinksDir),
	)

	syncer := indexsync.NewSyncer(indexsync.Config{
		SitemapURL: cfg.Index.SitemapURL,
		LinksDir:   cfg.Index.LinksDir,
	}, log)

	result, err := syncer.Run(ctx)
	if err != nil {
		log.Error("Sitemap sync failed", logger.Error(err))
		return 1
	}

	log.Info("Sitemap sync finished",
		logger.Int("parts", result.Parts),
		logger.Int("failed_parts", result.FailedParts),
		logger.Int("slugs", result.Slugs),
	)
	return 0
}
