package factory

import (
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/pg"
	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
)

type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	// AutoMigrate applies pending migrations when the pg store opens.
	AutoMigrate bool
}

func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(env.String("STORAGE_TYPE", string(storage.PG)))
	if storageType != storage.PG && storageType != storage.InMem {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.PG, storage.InMem})
	}

	cfg := &StorageConfig{Type: storageType}
	if storageType != storage.PG {
		return cfg, nil
	}

	maxConns, err := env.Int("PG_MAX_CONNS", 0)
	if err != nil {
		return nil, err
	}
	maxIdle, err := env.Duration("PG_MAX_CONN_IDLE", 0)
	if err != nil {
		return nil, err
	}
	cfg.Pg = &pg.PoolConfig{
		ConnStr:     env.String("PG_CONNECTION_STRING", ""),
		MaxConns:    int32(maxConns),
		MaxConnIdle: maxIdle,
	}
	if cfg.Pg.ConnStr == "" {
		slog.Error("PostgreSQL connection string is not set")
		return nil, fmt.Errorf("PostgreSQL connection string is not set")
	}

	if cfg.AutoMigrate, err = env.Bool("PG_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}
	return cfg, nil
}
