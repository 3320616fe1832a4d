package extract

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
)

// Extractor turns a URL into structured article content.
type Extractor interface {
	Extract(ctx context.Context, articleURL string) (*domain.Extraction, error)
}

type Kind string

const (
	KindJina        Kind = "jina"
	KindReadability Kind = "readability"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; news-digest/1.0)"
)

var ErrEmptyContent = errors.New("extractor returned no content")

// Config selects and configures the extraction backend.
type Config struct {
	Kind        Kind
	JinaBaseURL string
	JinaAPIKey  string
	Timeout     time.Duration
	UserAgent   string
}

// New builds the configured extractor.
func New(cfg Config) (Extractor, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Kind {
	case KindReadability:
		return NewReadabilityExtractor(
			WithReadabilityHttpClient(httpClient),
			WithUserAgent(cfg.UserAgent),
		), nil
	case KindJina, "":
		return NewJinaClient(cfg.JinaBaseURL,
			WithAPIKey(cfg.JinaAPIKey),
			WithJinaHttpClient(httpClient),
		)
	default:
		return nil, errors.New("unsupported extractor: " + string(cfg.Kind))
	}
}
