package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cloo-solutions/docsearch/internal/domain"
	"github.com/cloo-solutions/docsearch/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RemoteIndex is the write side of the search service.
type RemoteIndex interface {
	Reset(ctx context.Context) error
	Upsert(ctx context.Context, records ...domain.IndexRecord) error
}

// DocumentLoader reads every document under a docs root.
type DocumentLoader interface {
	Load(ctx context.Context, root string) ([]domain.RawDocument, error)
}

// DocumentError is a failure confined to one document.
type DocumentError struct {
	Title string
	Path  string
	Op    string
	Err   error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %q (%s): %s: %v", e.Title, e.Path, e.Op, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// IndexerConfig configures an Indexer.
type IndexerConfig struct {
	Chunk            ChunkConfig
	IndexHeadingless bool
	Concurrency      int
	Namespace        string
	RunID            string
}

// Indexer rebuilds the remote index from a docs tree.
type Indexer struct {
	index       RemoteIndex
	loader      DocumentLoader
	builder     *RecordBuilder
	concurrency int
	namespace   string
	runID       string
	logger      *zap.Logger
}

// NewIndexer creates an Indexer.
func NewIndexer(index RemoteIndex, loader DocumentLoader, cfg IndexerConfig, logger *zap.Logger) *Indexer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		index:       index,
		loader:      loader,
		builder:     NewRecordBuilder(cfg.Chunk, cfg.IndexHeadingless),
		concurrency: cfg.Concurrency,
		namespace:   cfg.Namespace,
		runID:       cfg.RunID,
		logger:      logger,
	}
}

// Run loads every document under docsRoot, resets the remote index and
// upserts the records of each document. Load and reset failures abort the
// run; a failing document is logged and skipped.
func (ix *Indexer) Run(ctx context.Context, docsRoot string) (*domain.RunStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "index.run", telemetry.SpanAttributes{
		RunID:     ix.runID,
		Namespace: ix.namespace,
		Operation: "run",
	})
	defer span.End()

	ix.logger.Info("Starting indexing process", zap.String("namespace", ix.namespace), zap.String("docs_path", docsRoot))

	docs, err := ix.loader.Load(ctx, docsRoot)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	ix.logger.Info("Processed markdown files", zap.Int("documents", len(docs)))

	if err := ix.index.Reset(ctx); err != nil {
		err = domain.NewDomainErrorWithCause(domain.ErrResetFailed.Code, domain.ErrResetFailed.Message, err)
		span.SetError(err)
		return nil, err
	}
	ix.logger.Info("Reset index for fresh indexing")

	stats := &domain.RunStats{Discovered: len(docs)}
	var indexed, failed, records atomic.Int64

	var g errgroup.Group
	g.SetLimit(ix.concurrency)
	for _, doc := range docs {
		g.Go(func() error {
			n, err := ix.indexDocument(ctx, doc)
			records.Add(int64(n))
			if err != nil {
				failed.Add(1)
				ix.logger.Error("❌ Failed to index document",
					zap.String("title", doc.Title),
					zap.String("path", doc.RelativePath),
					zap.Error(err))
				return nil
			}
			indexed.Add(1)
			ix.logger.Info("✅ Indexed document sections",
				zap.String("title", doc.Title),
				zap.Int("records", n))
			return nil
		})
	}
	_ = g.Wait()

	stats.Indexed = int(indexed.Load())
	stats.Failed = int(failed.Load())
	stats.Records = int(records.Load())

	ix.logger.Info("✅ Finished indexing docs",
		zap.Int("indexed", stats.Indexed),
		zap.Int("failed", stats.Failed),
		zap.Int("records", stats.Records))
	return stats, nil
}

// indexDocument builds and upserts one document's records and returns how
// many were written. Panics are turned into a DocumentError.
func (ix *Indexer) indexDocument(ctx context.Context, doc domain.RawDocument) (written int, err error) {
	ctx, span := telemetry.StartSpan(ctx, "index.document", telemetry.SpanAttributes{
		RunID:        ix.runID,
		DocumentPath: doc.RelativePath,
		Operation:    "document",
	})
	defer span.End()

	op := "build"
	defer func() {
		if r := recover(); r != nil {
			err = &DocumentError{Title: doc.Title, Path: doc.RelativePath, Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
		span.SetError(err)
	}()

	records, truncated := ix.builder.Build(doc)
	ix.logger.Debug("Built records",
		zap.String("path", doc.RelativePath),
		zap.Int("records", len(records)),
		zap.Int("chunks", countChunks(records)))
	for _, t := range truncated {
		ix.logger.Warn("⚠️ Section truncated at chunk limit",
			zap.String("title", doc.Title),
			zap.String("path", doc.RelativePath),
			zap.String("section", t.Title),
			zap.String("anchor", t.Anchor),
			zap.Int("dropped_runes", t.DroppedRunes))
	}

	op = "upsert"
	for _, rec := range records {
		if err := ix.index.Upsert(ctx, rec); err != nil {
			return written, &DocumentError{Title: doc.Title, Path: doc.RelativePath, Op: op, Err: err}
		}
		written++
	}
	return written, nil
}

func countChunks(records []domain.IndexRecord) int {
	n := 0
	for _, rec := range records {
		if rec.IsChunk() {
			n++
		}
	}
	return n
}
