package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloo-solutions/docsearch/internal/config"
	"github.com/cloo-solutions/docsearch/internal/docs"
	"github.com/cloo-solutions/docsearch/internal/domain"
	"github.com/cloo-solutions/docsearch/internal/logging"
	"github.com/cloo-solutions/docsearch/internal/service"
	"github.com/cloo-solutions/docsearch/internal/telemetry"
	"github.com/cloo-solutions/docsearch/internal/upstash"
	"github.com/cloo-solutions/docsearch/internal/watch"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// IndexCmd returns the index command.
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the search index from the docs tree",
		Long: `Reads every .md and .mdx file under DOCS_PATH, splits it into sections,
resets the search index and upserts one record per section or chunk.

Environment variables:
  UPSTASH_SEARCH_REST_URL         Search service URL (required)
  UPSTASH_SEARCH_REST_TOKEN       Write token (required)
  UPSTASH_SEARCH_INDEX_NAMESPACE  Index name
  DOCS_PATH                       Docs root (default: docs)

With --watch the index is rebuilt whenever a markdown file under DOCS_PATH
changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: runIndexCmd,
	}

	cmd.Flags().BoolP("watch", "w", false, "Rebuild the index when docs change")

	return cmd
}

func runIndexCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HasSentry() {
		shutdown := telemetry.Init(telemetry.Config{
			DSN:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Debug:       cfg.Debug,
		}, logger)
		defer shutdown()
	} else {
		logger.Debug("sentry: SENTRY_DSN not set, error reporting disabled")
	}

	if _, err := RunIndex(ctx, cfg, logger); err != nil {
		return err
	}

	watchDocs, _ := cmd.Flags().GetBool("watch")
	if !watchDocs {
		return nil
	}
	return WatchAndIndex(ctx, cfg, logger)
}

// WatchAndIndex rebuilds the index after every batch of docs changes until
// ctx is done. A failed rebuild is logged and watching continues.
func WatchAndIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	watcher, err := watch.New(cfg.DocsPath, cfg.WatchDebounce, logger)
	if err != nil {
		return fmt.Errorf("failed to watch docs: %w", err)
	}

	logger.Info("👀 Watching docs for changes", zap.String("docs_path", cfg.DocsPath))
	return watcher.Run(ctx, func(ctx context.Context, paths []string) {
		logger.Info("Docs changed, reindexing", zap.Strings("paths", paths))
		_, _ = RunIndex(ctx, cfg, logger)
	})
}

// RunIndex performs one full indexing run. Document failures are logged and
// counted; only configuration, loading and reset failures return an error.
func RunIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*domain.RunStats, error) {
	if err := cfg.ValidateForIndex(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))
	telemetry.TagRun(runID)

	client, err := upstash.NewClient(upstash.Config{
		URL:               cfg.SearchURL,
		Token:             cfg.SearchToken,
		Namespace:         cfg.Namespace,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	indexer := service.NewIndexer(client, docs.NewLoader(cfg.DocsRoutePrefix, cfg.LoadConcurrency), service.IndexerConfig{
		Chunk: service.ChunkConfig{
			MaxSize: cfg.ChunkMaxSize,
			Overlap: cfg.ChunkOverlap,
		},
		IndexHeadingless: cfg.IndexHeadinglessDocs,
		Concurrency:      cfg.IndexConcurrency,
		Namespace:        client.Namespace(),
		RunID:            runID,
	}, logger)

	stats, err := indexer.Run(ctx, cfg.DocsPath)
	if err != nil {
		telemetry.CaptureError(ctx, err)
		logger.Error("❌ Indexing failed", zap.Error(err))
		return nil, err
	}
	return stats, nil
}
