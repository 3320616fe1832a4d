package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/DjordjeVuckovic/news-digest/internal/digest"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/extract"
	"github.com/DjordjeVuckovic/news-digest/internal/llm"
	"github.com/DjordjeVuckovic/news-digest/internal/notify"
	"github.com/DjordjeVuckovic/news-digest/internal/pipeline"
	"github.com/DjordjeVuckovic/news-digest/internal/queue"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/es"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/factory"
)

// App holds the wired pipeline shared by the API server and the CLI.
type App struct {
	Store      storage.Store
	Submitter  *queue.Submitter
	Dispatcher *queue.Dispatcher
	Aggregator *digest.Aggregator
	// Indexer is nil when search is disabled.
	Indexer *es.Indexer
}

// New connects to storage and builds every pipeline component.
func New(ctx context.Context, cfg Config) (*App, error) {
	store, err := factory.NewStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	a, err := newWithStore(ctx, cfg, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

func newWithStore(ctx context.Context, cfg Config, store storage.Store) (*App, error) {
	extractor, err := extract.New(cfg.Extract)
	if err != nil {
		return nil, fmt.Errorf("create extractor: %w", err)
	}

	comments, err := loadComments(cfg)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		return nil, fmt.Errorf("create notifier: %w", err)
	}

	analysisOpts := []pipeline.AnalysisOption{pipeline.WithAnalysisConfig(cfg.Analysis)}

	var indexer *es.Indexer
	if cfg.Search.Enabled {
		indexer, err = es.NewIndexer(ctx, cfg.Search)
		if err != nil {
			return nil, fmt.Errorf("create search indexer: %w", err)
		}
		analysisOpts = append(analysisOpts, pipeline.WithIndexer(indexer))
		slog.Info("Search indexing enabled", "index", cfg.Search.IndexName)
	}

	stages := map[domain.JobKind]queue.Stage{
		domain.JobKindExtract: pipeline.NewExtractionStage(store, extractor,
			pipeline.WithCommentRegistry(comments),
			pipeline.WithExtractTimeout(cfg.Extract.Timeout),
		),
		domain.JobKindAnalyze: pipeline.NewAnalysisStage(store, client,
			pipeline.NewHTTPImageFetcher(cfg.Image),
			analysisOpts...,
		),
	}

	return &App{
		Store:      store,
		Submitter:  queue.NewSubmitter(store),
		Dispatcher: queue.NewDispatcher(store, store, stages, cfg.Queue),
		Aggregator: digest.NewAggregator(store, store, store, client, notifier, cfg.Digest),
		Indexer:    indexer,
	}, nil
}

func loadComments(cfg Config) (*extract.CommentRegistry, error) {
	httpClient := &http.Client{Timeout: cfg.Extract.Timeout}
	if cfg.Discussion == "" {
		return extract.DefaultCommentRegistry(httpClient), nil
	}

	f, err := os.Open(cfg.Discussion)
	if err != nil {
		return nil, fmt.Errorf("open discussion config: %w", err)
	}
	defer f.Close()

	registry, err := extract.LoadCommentRegistry(f, httpClient)
	if err != nil {
		return nil, fmt.Errorf("load discussion config: %w", err)
	}
	return registry, nil
}

// Close releases storage connections.
func (a *App) Close() {
	a.Store.Close()
}
