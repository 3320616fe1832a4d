package app

import (
	"github.com/DjordjeVuckovic/news-digest/internal/digest"
	"github.com/DjordjeVuckovic/news-digest/internal/extract"
	"github.com/DjordjeVuckovic/news-digest/internal/llm"
	"github.com/DjordjeVuckovic/news-digest/internal/notify"
	"github.com/DjordjeVuckovic/news-digest/internal/pipeline"
	"github.com/DjordjeVuckovic/news-digest/internal/queue"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/es"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

// Config gathers the settings of every pipeline component.
type Config struct {
	Storage    factory.StorageConfig
	Extract    extract.Config
	Discussion string
	LLM        llm.Config
	Analysis   pipeline.AnalysisConfig
	Image      pipeline.ImageConfig
	Queue      queue.Config
	Digest     digest.Config
	Notify     notify.Config
	Search     es.ClientConfig
}

func LoadConfig() (*Config, error) {
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, err
	}
	extractCfg, err := extract.LoadConfig()
	if err != nil {
		return nil, err
	}
	llmCfg, err := llm.LoadConfig()
	if err != nil {
		return nil, err
	}
	analysisCfg, err := pipeline.LoadAnalysisConfig()
	if err != nil {
		return nil, err
	}
	imageCfg, err := pipeline.LoadImageConfig()
	if err != nil {
		return nil, err
	}
	queueCfg, err := queue.LoadConfig()
	if err != nil {
		return nil, err
	}
	digestCfg, err := digest.LoadConfig()
	if err != nil {
		return nil, err
	}
	notifyCfg, err := notify.LoadConfig()
	if err != nil {
		return nil, err
	}
	searchCfg, err := es.LoadEnv()
	if err != nil {
		return nil, err
	}

	return &Config{
		Storage:    *storageCfg,
		Extract:    *extractCfg,
		Discussion: env.String("DISCUSSION_CONFIG", ""),
		LLM:        *llmCfg,
		Analysis:   *analysisCfg,
		Image:      *imageCfg,
		Queue:      *queueCfg,
		Digest:     *digestCfg,
		Notify:     *notifyCfg,
		Search:     *searchCfg,
	}, nil
}
