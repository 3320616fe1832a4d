package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/news-digest/internal/api/server"
	"github.com/DjordjeVuckovic/news-digest/internal/app"
	"github.com/DjordjeVuckovic/news-digest/internal/scheduler"
	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
	"github.com/DjordjeVuckovic/news-digest/pkg/logging"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type DigestApiConfig struct {
	LogConfig       logging.Config
	ServerConfig    server.Config
	PipelineConfig  app.Config
	SchedulerConfig scheduler.Config
}

func (as *AppConfig) Load() (*DigestApiConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/digest_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	logCfg, err := logging.LoadConfig()
	if err != nil {
		return nil, err
	}

	serverCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server configuration from environment", "error", err)
		return nil, err
	}

	pipelineCfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("Failed to load pipeline configuration from environment", "error", err)
		return nil, err
	}

	return &DigestApiConfig{
		LogConfig:       *logCfg,
		ServerConfig:    *serverCfg,
		PipelineConfig:  *pipelineCfg,
		SchedulerConfig: scheduler.LoadConfig(),
	}, nil
}
