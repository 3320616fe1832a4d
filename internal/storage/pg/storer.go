package pg

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ storage.Store = (*Storer)(nil)

// Storer is the postgres implementation of storage.Store.
type Storer struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) *Storer {
	return &Storer{pool: pool, db: pool.DB()}
}

func (s *Storer) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storer) Close() {
	s.pool.Close()
}

func (s *Storer) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return s.pool.InTx(ctx, fn)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
