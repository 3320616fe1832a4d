package pipeline

import (
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/llm"
	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

const (
	defaultMaxImages        = 5
	defaultImageConcurrency = 3
	defaultImageTimeout     = 20 * time.Second
	defaultImageMaxBytes    = 5 << 20
	defaultCallTimeout      = 60 * time.Second
)

type AnalysisConfig struct {
	MaxContentChars  int
	MaxImages        int
	ImageConcurrency int
	// CallTimeout bounds each LLM call made by the stage.
	CallTimeout time.Duration
}

type ImageConfig struct {
	Timeout  time.Duration
	MaxBytes int64
}

func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MaxContentChars:  llm.DefaultMaxContentChars,
		MaxImages:        defaultMaxImages,
		ImageConcurrency: defaultImageConcurrency,
		CallTimeout:      defaultCallTimeout,
	}
}

func LoadAnalysisConfig() (*AnalysisConfig, error) {
	cfg := DefaultAnalysisConfig()
	var err error

	if cfg.MaxContentChars, err = env.PositiveInt("ANALYSIS_MAX_CONTENT_CHARS", cfg.MaxContentChars); err != nil {
		return nil, err
	}
	if cfg.MaxImages, err = env.Int("ANALYSIS_MAX_IMAGES", cfg.MaxImages); err != nil {
		return nil, err
	}
	if cfg.CallTimeout, err = env.Duration("LLM_TIMEOUT", cfg.CallTimeout); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadImageConfig() (*ImageConfig, error) {
	timeout, err := env.Duration("IMAGE_TIMEOUT", defaultImageTimeout)
	if err != nil {
		return nil, err
	}
	maxBytes, err := env.PositiveInt("IMAGE_MAX_BYTES", defaultImageMaxBytes)
	if err != nil {
		return nil, err
	}
	return &ImageConfig{Timeout: timeout, MaxBytes: int64(maxBytes)}, nil
}
