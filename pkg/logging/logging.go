package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

type Config struct {
	Level  slog.Level
	Format string
}

// LoadConfig reads LOG_LEVEL (debug|info|warn|error) and LOG_FORMAT (text|json).
func LoadConfig() (*Config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(env.String("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	format := strings.ToLower(env.String("LOG_FORMAT", "text"))
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", format)
	}
	return &Config{Level: level, Format: format}, nil
}

func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs the configured logger as the slog default.
func Setup(cfg Config) {
	slog.SetDefault(NewLogger(os.Stdout, cfg))
}
