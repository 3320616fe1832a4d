package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

const (
	defaultPort            = 8080
	defaultBodyLimit       = "1M"
	defaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	// BodyLimit uses echo's size notation, e.g. "512K" or "2M".
	BodyLimit       string
	ShutdownTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	port, err := env.PositiveInt("PORT", defaultPort)
	if err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}
	if port > 65535 {
		return nil, fmt.Errorf("invalid port: must be between 1 and 65535, got %d", port)
	}

	useHttp2, err := env.Bool("USE_HTTP2", false)
	if err != nil {
		return nil, err
	}

	shutdown, err := env.Duration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	origins := env.List("CORS_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Config{
		Port:            strconv.Itoa(port),
		UseHttp2:        useHttp2,
		CorsOrigins:     origins,
		BodyLimit:       env.String("BODY_LIMIT", defaultBodyLimit),
		ShutdownTimeout: shutdown,
	}, nil
}
