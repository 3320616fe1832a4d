package queue

import (
	"time"

	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

const (
	DefaultMaxConcurrent = 5
	DefaultMaxRetries    = 3
	defaultJobTimeout    = 3 * time.Minute
	defaultBackoffBase   = 5 * time.Second
	defaultBackoffMax    = 5 * time.Minute
)

type Config struct {
	MaxConcurrent int
	MaxRetries    int
	// JobTimeout bounds one stage execution.
	JobTimeout  time.Duration
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxConcurrent: DefaultMaxConcurrent,
		MaxRetries:    DefaultMaxRetries,
		JobTimeout:    defaultJobTimeout,
		BackoffBase:   defaultBackoffBase,
		BackoffMax:    defaultBackoffMax,
	}
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	var err error

	if cfg.MaxConcurrent, err = env.PositiveInt("QUEUE_MAX_CONCURRENT", cfg.MaxConcurrent); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = env.PositiveInt("QUEUE_MAX_RETRIES", cfg.MaxRetries); err != nil {
		return nil, err
	}
	if cfg.JobTimeout, err = env.Duration("QUEUE_JOB_TIMEOUT", cfg.JobTimeout); err != nil {
		return nil, err
	}
	if cfg.BackoffBase, err = env.Duration("RETRY_BACKOFF_BASE", cfg.BackoffBase); err != nil {
		return nil, err
	}
	if cfg.BackoffMax, err = env.Duration("RETRY_BACKOFF_MAX", cfg.BackoffMax); err != nil {
		return nil, err
	}
	return &cfg, nil
}
