package digest

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

const (
	defaultConcurrency = 2
	defaultCallTimeout = 90 * time.Second
)

type Config struct {
	// Location defines calendar days and the default "yesterday".
	Location    *time.Location
	Concurrency int
	CallTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Location:    time.UTC,
		Concurrency: defaultConcurrency,
		CallTimeout: defaultCallTimeout,
	}
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	tz := env.String("DIGEST_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("DIGEST_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.Concurrency, err = env.PositiveInt("DIGEST_CONCURRENCY", cfg.Concurrency); err != nil {
		return nil, err
	}
	if cfg.CallTimeout, err = env.Duration("DIGEST_LLM_TIMEOUT", cfg.CallTimeout); err != nil {
		return nil, err
	}
	return &cfg, nil
}
