package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/pg"
)

// NewStore opens the backend selected by cfg.Type.
func NewStore(ctx context.Context, cfg StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		if cfg.AutoMigrate {
			version, err := pg.Migrate(pool)
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
			slog.Info("Database schema is up to date", "version", version)
		}

		return pg.NewStorer(pool), nil

	case storage.InMem:
		slog.Warn("Using in-memory storage, data is lost on restart")
		return in_mem.NewInMemStorer(), nil

	default:
		return nil, fmt.Errorf("%w: %s", storage.ErrUnsupportedStorer, cfg.Type)
	}
}
