package llm

import (
	"errors"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-haiku-4-5-20251001"
	defaultTimeout = 60 * time.Second
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func LoadConfig() (*Config, error) {
	apiKey := env.String("ANTHROPIC_API_KEY", "")
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY environment variable not set")
	}

	timeout, err := env.Duration("LLM_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, err
	}

	return &Config{
		APIKey:  apiKey,
		BaseURL: env.String("ANTHROPIC_BASE_URL", defaultBaseURL),
		Model:   env.String("LLM_MODEL", defaultModel),
		Timeout: timeout,
	}, nil
}

// NewClient builds the configured client with a per-call transport timeout.
func NewClient(cfg Config) (*AnthropicClient, error) {
	return NewAnthropicClient(cfg.BaseURL, cfg.APIKey, cfg.Model,
		WithHttpClient(&http.Client{Timeout: cfg.Timeout}),
	)
}
