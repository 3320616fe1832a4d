package pg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolConfig struct {
	ConnStr string
	// MaxConns caps the pool size; zero keeps the pgxpool default.
	MaxConns int32
	// MaxConnIdle closes connections idle for longer; zero keeps the default.
	MaxConnIdle time.Duration
}

// ConnectionPool wraps pgxpool with the transaction helper the storers share.
type ConnectionPool struct {
	db *pgxpool.Pool
}

func NewConnectionPool(ctx context.Context, cfg PoolConfig) (*ConnectionPool, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.ConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		pgCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnIdle > 0 {
		pgCfg.MaxConnIdleTime = cfg.MaxConnIdle
	}

	db, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	slog.Info("Connected to postgres",
		"host", pgCfg.ConnConfig.Host,
		"database", pgCfg.ConnConfig.Database,
		"max_conns", pgCfg.MaxConns,
	)
	return &ConnectionPool{db: db}, nil
}

func (p *ConnectionPool) DB() *pgxpool.Pool {
	return p.db
}

func (p *ConnectionPool) Close() {
	p.db.Close()
}

func (p *ConnectionPool) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// InTx runs fn in a transaction, committing only when fn succeeds.
func (p *ConnectionPool) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
