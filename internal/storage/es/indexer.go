package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

const (
	bulkWorkers    = 2
	bulkFlushBytes = 5 << 20
	bulkFlushEvery = 30 * time.Second
	// maxReportedFailures bounds the item errors joined into one bulk error.
	maxReportedFailures = 5
)

// Indexer mirrors ready articles into Elasticsearch. The article id is the
// document id, so reindexing an article overwrites its document.
type Indexer struct {
	client    *elasticsearch.TypedClient
	indexName string
	builder   *IndexBuilder
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	ix := &Indexer{client: client, indexName: config.IndexName, builder: NewIndexBuilder()}
	if err := ix.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return ix, nil
}

func (ix *Indexer) Index(ctx context.Context, article domain.Article) error {
	doc := ix.builder.mapToESDocument(article)

	res, err := ix.client.Index(ix.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("index article %s: %w", doc.ID, err)
	}

	slog.Debug("article mirrored", "id", doc.ID, "index", ix.indexName, "result", res.Result)
	return nil
}

// bulkReport collects per-item outcomes reported by the bulk indexer's workers.
type bulkReport struct {
	mu     sync.Mutex
	ok     int
	failed int
	errs   []error
}

func (r *bulkReport) success() {
	r.mu.Lock()
	r.ok++
	r.mu.Unlock()
}

func (r *bulkReport) failure(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
	if len(r.errs) < maxReportedFailures {
		r.errs = append(r.errs, fmt.Errorf("article %s: %w", id, err))
	}
}

// IndexBulk mirrors many articles through the bulk API and reports every
// item that did not make it into the index.
func (ix *Indexer) IndexBulk(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         ix.indexName,
		Client:        ix.client,
		NumWorkers:    bulkWorkers,
		FlushBytes:    bulkFlushBytes,
		FlushInterval: bulkFlushEvery,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	report := &bulkReport{}
	for _, article := range articles {
		doc := ix.builder.mapToESDocument(article)
		body, err := json.Marshal(doc)
		if err != nil {
			report.failure(doc.ID, err)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(body),
			OnSuccess: func(context.Context, esutil.BulkIndexerItem, esutil.BulkIndexerResponseItem) {
				report.success()
			},
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err == nil {
					err = fmt.Errorf("status %d: %s: %s", res.Status, res.Error.Type, res.Error.Reason)
				}
				report.failure(item.DocumentID, err)
			},
		})
		if err != nil {
			report.failure(doc.ID, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to flush bulk indexer: %w", err)
	}

	slog.Info("Bulk mirror finished",
		"index", ix.indexName,
		"indexed", report.ok,
		"failed", report.failed,
		"total", len(articles))

	if report.failed > 0 {
		return fmt.Errorf("failed to index %d of %d articles: %w",
			report.failed, len(articles), errors.Join(report.errs...))
	}
	return nil
}

// EnsureIndex creates the article index with its analyzers and mapping when
// it does not exist yet. An existing index is left untouched.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := ix.client.Indices.Exists(ix.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Debug("Index already exists", "index", ix.indexName)
		return nil
	}

	settings := ix.builder.buildSettings()
	mappings := ix.builder.buildMapping()
	res, err := ix.client.Indices.Create(ix.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("creation of index %s was not acknowledged", ix.indexName)
	}

	slog.Info("Index created", "index", ix.indexName)
	return nil
}
