package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/extract"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
)

type ExtractionOption func(*ExtractionStage)

// ExtractionStage pulls article content from the extraction service and
// hands the article over to analysis.
type ExtractionStage struct {
	articles  storage.ArticleStore
	extractor extract.Extractor
	comments  *extract.CommentRegistry
	timeout   time.Duration
}

func NewExtractionStage(articles storage.ArticleStore, extractor extract.Extractor, opts ...ExtractionOption) *ExtractionStage {
	s := &ExtractionStage{
		articles:  articles,
		extractor: extractor,
		comments:  extract.NewCommentRegistry(),
		timeout:   defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithCommentRegistry(r *extract.CommentRegistry) ExtractionOption {
	return func(s *ExtractionStage) {
		if r != nil {
			s.comments = r
		}
	}
}

func WithExtractTimeout(d time.Duration) ExtractionOption {
	return func(s *ExtractionStage) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Run extracts the article and requests an analyze job. Failures are
// returned for retry bookkeeping; the stage never marks the article failed.
func (s *ExtractionStage) Run(ctx context.Context, articleID uuid.UUID) (domain.JobKind, error) {
	article, err := s.articles.GetArticle(ctx, articleID)
	if err != nil {
		return "", fmt.Errorf("load article: %w", err)
	}

	switch article.Status {
	case domain.ArticleAnalyzing:
		slog.Info("article already extracted", "article_id", articleID)
		return domain.JobKindAnalyze, nil
	case domain.ArticleReady:
		return "", nil
	case domain.ArticleFailed:
		return "", fmt.Errorf("article %s already failed", articleID)
	}

	if err := s.articles.MarkExtracting(ctx, articleID); err != nil {
		return "", fmt.Errorf("mark extracting: %w", err)
	}

	slog.Info("extracting article", "article_id", articleID, "url", article.URL)

	e, err := s.extract(ctx, article.URL)
	if err != nil {
		return "", err
	}

	if s.comments.IsDiscussion(article.URL) {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		e.Comments = s.comments.Extract(cctx, article.URL, e)
		cancel()
	}

	if err := s.articles.SaveExtraction(ctx, articleID, *e); err != nil {
		return "", fmt.Errorf("save extraction: %w", err)
	}

	slog.Info("article extracted", "article_id", articleID, "images", len(e.Images), "comments", len(e.Comments))
	return domain.JobKindAnalyze, nil
}

func (s *ExtractionStage) extract(ctx context.Context, url string) (*domain.Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	e, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", url, err)
	}
	return e, nil
}
