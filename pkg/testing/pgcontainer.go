package testing

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultPGImage = "postgres:17.5"

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

// PGConfig describes the throwaway database. Empty fields fall back to
// test defaults.
type PGConfig struct {
	Image    string
	Database string
	Username string
	Password string
}

func (c PGConfig) withDefaults() PGConfig {
	if c.Image == "" {
		c.Image = defaultPGImage
	}
	if c.Database == "" {
		c.Database = "digest_test_db"
	}
	if c.Username == "" {
		c.Username = "test"
	}
	if c.Password == "" {
		c.Password = "test"
	}
	return c
}

// NewPGContainer starts an empty database; callers apply the schema.
func NewPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	cfg = cfg.withDefaults()

	// postgres logs readiness twice: once for the init run, once for the real start.
	ready := wait.ForLog("database system is ready to accept connections").
		WithOccurrence(2).
		WithStartupTimeout(30 * time.Second)

	c, err := postgres.Run(ctx, cfg.Image,
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(ready),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PGContainer{Container: c, ConnString: dsn}, nil
}
