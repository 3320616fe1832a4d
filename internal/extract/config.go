package extract

import (
	"fmt"

	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

const defaultJinaBaseURL = "https://r.jina.ai"

func LoadConfig() (*Config, error) {
	timeout, err := env.Duration("EXTRACT_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Kind:        Kind(env.String("EXTRACTOR", string(KindJina))),
		JinaBaseURL: env.String("JINA_BASE_URL", defaultJinaBaseURL),
		JinaAPIKey:  env.String("JINA_API_KEY", ""),
		Timeout:     timeout,
		UserAgent:   env.String("USER_AGENT", defaultUserAgent),
	}
	if cfg.Kind != KindJina && cfg.Kind != KindReadability {
		return nil, fmt.Errorf("invalid EXTRACTOR value %q, expected one of %v", cfg.Kind, []Kind{KindJina, KindReadability})
	}
	return cfg, nil
}
