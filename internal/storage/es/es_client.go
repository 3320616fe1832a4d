package es

import (
	"fmt"
	"net/http"

	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	defaultIndexName  = "articles"
	defaultMaxRetries = 3
)

type ClientConfig struct {
	Enabled   bool
	Addresses []string
	IndexName string
	Username  string
	Password  string
	// MaxRetries applies to 429 and 5xx gateway responses.
	MaxRetries int
}

// LoadEnv reads the search mirror settings. Addresses are only required
// when SEARCH_ENABLED is set.
func LoadEnv() (*ClientConfig, error) {
	enabled, err := env.Bool("SEARCH_ENABLED", false)
	if err != nil {
		return nil, err
	}
	retries, err := env.Int("ES_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, err
	}
	cfg := &ClientConfig{
		Enabled:    enabled,
		Addresses:  env.List("ES_ADDRESSES"),
		IndexName:  env.String("ES_INDEX_NAME", defaultIndexName),
		Username:   env.String("ES_USERNAME", ""),
		Password:   env.String("ES_PASSWORD", ""),
		MaxRetries: retries,
	}
	if cfg.Enabled && len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch configuration is incomplete: ES_ADDRESSES is missing")
	}
	return cfg, nil
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses:     config.Addresses,
		RetryOnStatus: []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		MaxRetries:    config.MaxRetries,
	}
	if config.MaxRetries <= 0 {
		cfg.DisableRetry = true
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return client, nil
}
