package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/in_mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	t.Run("in memory", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "in_mem")
		cfg, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, storage.InMem, cfg.Type)
		assert.Nil(t, cfg.Pg)
	})

	t.Run("pg requires connection string", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "pg")
		t.Setenv("PG_CONNECTION_STRING", "")
		_, err := LoadEnv()
		assert.Error(t, err)
	})

	t.Run("pg", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "pg")
		t.Setenv("PG_CONNECTION_STRING", "postgres://u:p@localhost:5432/digest")
		t.Setenv("PG_AUTO_MIGRATE", "false")
		t.Setenv("PG_MAX_CONNS", "8")
		cfg, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, int32(8), cfg.Pg.MaxConns)
		assert.False(t, cfg.AutoMigrate)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("STORAGE_TYPE", "es")
		_, err := LoadEnv()
		assert.Error(t, err)
	})
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(context.Background(), StorageConfig{Type: storage.InMem})
	require.NoError(t, err)
	assert.IsType(t, &in_mem.InMemStorer{}, store)
	assert.NoError(t, store.Ping(context.Background()))

	_, err = NewStore(context.Background(), StorageConfig{Type: "solr"})
	assert.True(t, errors.Is(err, storage.ErrUnsupportedStorer))
}
