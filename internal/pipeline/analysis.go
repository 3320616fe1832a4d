package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/llm"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
)

// Indexer mirrors ready articles into a search index.
type Indexer interface {
	Index(ctx context.Context, article domain.Article) error
}

type AnalysisOption func(*AnalysisStage)

// AnalysisStage runs the text analysis and the best-effort image passes,
// then moves the article to ready.
type AnalysisStage struct {
	articles storage.ArticleStore
	llm      llm.Client
	images   ImageFetcher
	indexer  Indexer
	cfg      AnalysisConfig
}

func NewAnalysisStage(articles storage.ArticleStore, client llm.Client, images ImageFetcher, opts ...AnalysisOption) *AnalysisStage {
	s := &AnalysisStage{
		articles: articles,
		llm:      client,
		images:   images,
		cfg:      DefaultAnalysisConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithAnalysisConfig(cfg AnalysisConfig) AnalysisOption {
	return func(s *AnalysisStage) {
		if cfg.MaxContentChars > 0 {
			s.cfg.MaxContentChars = cfg.MaxContentChars
		}
		if cfg.MaxImages >= 0 {
			s.cfg.MaxImages = cfg.MaxImages
		}
		if cfg.ImageConcurrency > 0 {
			s.cfg.ImageConcurrency = cfg.ImageConcurrency
		}
		if cfg.CallTimeout > 0 {
			s.cfg.CallTimeout = cfg.CallTimeout
		}
	}
}

func WithIndexer(indexer Indexer) AnalysisOption {
	return func(s *AnalysisStage) {
		s.indexer = indexer
	}
}

func (s *AnalysisStage) Run(ctx context.Context, articleID uuid.UUID) (domain.JobKind, error) {
	article, err := s.articles.GetArticle(ctx, articleID)
	if err != nil {
		return "", fmt.Errorf("load article: %w", err)
	}

	switch article.Status {
	case domain.ArticleReady:
		slog.Info("article already analyzed", "article_id", articleID)
		return "", nil
	case domain.ArticleAnalyzing:
	default:
		return "", fmt.Errorf("article %s is %s, expected %s", articleID, article.Status, domain.ArticleAnalyzing)
	}

	prompt, err := llm.AnalysisPrompt(article.Title, article.Content, article.Comments, s.cfg.MaxContentChars)
	if err != nil {
		return "", err
	}

	raw, err := s.complete(ctx, llm.Request{Prompt: prompt, MaxTokens: llm.AnalysisMaxTokens})
	if err != nil {
		return "", fmt.Errorf("analyze article: %w", err)
	}

	var analysis domain.Analysis
	if err := llm.DecodeStrict(raw, llm.AnalysisSchema, &analysis); err != nil {
		return "", fmt.Errorf("parse analysis: %w", err)
	}

	images := article.Images
	if len(images) > s.cfg.MaxImages {
		images = images[:s.cfg.MaxImages]
	}
	analysis.ImageAnalyses = s.analyzeImages(ctx, images)

	if err := s.articles.SaveAnalysis(ctx, articleID, analysis); err != nil {
		return "", fmt.Errorf("save analysis: %w", err)
	}

	slog.Info("article analyzed", "article_id", articleID, "image_analyses", len(analysis.ImageAnalyses))

	if s.indexer != nil {
		article.Analysis = &analysis
		article.Status = domain.ArticleReady
		if err := s.indexer.Index(ctx, *article); err != nil {
			slog.Warn("failed to index article", "article_id", articleID, "error", err)
		}
	}
	return "", nil
}

// analyzeImages describes each image with bounded concurrency. Failed images
// are logged and left out; the result keeps the input order.
func (s *AnalysisStage) analyzeImages(ctx context.Context, images []domain.Image) []domain.ImageAnalysis {
	if len(images) == 0 || s.images == nil {
		return nil
	}

	results := make([]*domain.ImageAnalysis, len(images))
	sem := make(chan struct{}, s.cfg.ImageConcurrency)
	var wg sync.WaitGroup

	for i, img := range images {
		wg.Add(1)
		go func(i int, img domain.Image) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ia, err := s.analyzeImage(ctx, img)
			if err != nil {
				slog.Warn("failed to analyze image", "image_url", img.URL, "error", err)
				return
			}
			results[i] = ia
		}(i, img)
	}
	wg.Wait()

	var out []domain.ImageAnalysis
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (s *AnalysisStage) analyzeImage(ctx context.Context, img domain.Image) (ia *domain.ImageAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	payload, err := s.images.Fetch(ctx, img.URL)
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.Complete(ctx, llm.Request{
		Prompt:    llm.ImagePrompt,
		Image:     payload,
		MaxTokens: llm.ImageMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var res llm.ImageResult
	if err := llm.DecodeStrict(raw, llm.ImageSchema, &res); err != nil {
		return nil, err
	}

	return &domain.ImageAnalysis{
		ImageURL:    img.URL,
		Description: res.Description,
		Objects:     res.Objects,
		Relevance:   res.Relevance,
	}, nil
}

func (s *AnalysisStage) complete(ctx context.Context, req llm.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return s.llm.Complete(ctx, req)
}
