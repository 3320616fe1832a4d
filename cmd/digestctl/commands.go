package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/news-digest/internal/app"
	"github.com/DjordjeVuckovic/news-digest/internal/digest"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/importer"
	"github.com/DjordjeVuckovic/news-digest/internal/queue"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/pg"
	"github.com/DjordjeVuckovic/news-digest/pkg/config/env"
	"github.com/DjordjeVuckovic/news-digest/pkg/logging"
	"github.com/google/uuid"
)

const defaultReindexBatch = 100

// runtime carries what every command needs.
type runtime struct {
	opts *Options
	out  io.Writer
}

func (rt *runtime) setup() {
	if err := env.LoadDotEnv(rt.opts.Env, "cmd/digestctl/.env"); err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}
	if cfg, err := logging.LoadConfig(); err == nil {
		logging.Setup(*cfg)
	}
}

func (rt *runtime) pipeline(ctx context.Context) (*app.App, error) {
	rt.setup()
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return app.New(ctx, *cfg)
}

func (rt *runtime) printJSON(v any) error {
	enc := json.NewEncoder(rt.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

type migrateCommand struct {
	rt *runtime
}

func (c *migrateCommand) Execute([]string) error {
	ctx, cancel := signalContext()
	defer cancel()

	c.rt.setup()
	cfg, err := factory.LoadEnv()
	if err != nil {
		return err
	}
	if cfg.Type != storage.PG {
		_, err = fmt.Fprintf(c.rt.out, "storage %s has no schema to migrate\n", cfg.Type)
		return err
	}

	pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
	if err != nil {
		return err
	}
	defer pool.Close()

	version, err := pg.Migrate(pool)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.rt.out, "schema at version %d\n", version)
	return err
}

type dispatchCommand struct {
	rt *runtime
}

func (c *dispatchCommand) Execute([]string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, err := c.rt.pipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	res, err := p.Dispatcher.RunCycle(ctx)
	if err != nil {
		return err
	}
	if res.Idle {
		_, err = fmt.Fprintln(c.rt.out, "No pending jobs")
		return err
	}
	return c.rt.printJSON(res)
}

type digestCommand struct {
	rt   *runtime
	User string `long:"user" description:"Only build the digest of this user ID"`
	Date string `long:"date" description:"Day to summarize as YYYY-MM-DD, defaults to yesterday"`
}

func (c *digestCommand) Execute([]string) error {
	req, err := c.request()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, err := c.rt.pipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	res, err := p.Aggregator.Run(ctx, req)
	if err != nil {
		return err
	}
	if err := c.rt.printJSON(res); err != nil {
		return err
	}
	return failedUsers(res)
}

func (c *digestCommand) request() (digest.Request, error) {
	req := digest.Request{Date: c.Date}
	if c.User != "" {
		id, err := uuid.Parse(c.User)
		if err != nil {
			return req, fmt.Errorf("invalid --user: %w", err)
		}
		req.UserID = &id
	}
	return req, nil
}

func failedUsers(res *digest.RunResult) error {
	failed := 0
	for _, r := range res.Results {
		if !r.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d digests failed", failed, len(res.Results))
	}
	return nil
}

type reindexCommand struct {
	rt        *runtime
	User      string `long:"user" required:"true" description:"User whose ready articles are indexed"`
	BatchSize int    `long:"batch-size" default:"100" description:"Articles indexed per bulk request"`
}

func (c *reindexCommand) Execute([]string) error {
	userID, err := uuid.Parse(c.User)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, err := c.rt.pipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	if p.Indexer == nil {
		return errors.New("search is disabled, set SEARCH_ENABLED=true")
	}

	n, err := reindex(ctx, p.Store, p.Indexer, userID, c.BatchSize)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.rt.out, "indexed %d articles\n", n)
	return err
}

type bulkIndexer interface {
	IndexBulk(ctx context.Context, articles []domain.Article) error
}

// reindex pages through a user's ready articles newest first and indexes
// each page in one bulk request.
func reindex(ctx context.Context, articles storage.ArticleStore, indexer bulkIndexer, userID uuid.UUID, batch int) (int, error) {
	if batch < 1 {
		batch = defaultReindexBatch
	}

	total := 0
	var before *storage.Position
	for {
		page, err := articles.ListArticles(ctx, storage.ArticleFilter{
			UserID: userID,
			Status: domain.ArticleReady,
			Before: before,
			Limit:  batch,
		})
		if err != nil {
			return total, fmt.Errorf("list articles: %w", err)
		}
		if len(page) == 0 {
			return total, nil
		}

		if err := indexer.IndexBulk(ctx, page); err != nil {
			return total, fmt.Errorf("index batch: %w", err)
		}
		total += len(page)
		slog.Info("Indexed batch", "user_id", userID, "count", len(page), "total", total)

		if len(page) < batch {
			return total, nil
		}
		last := page[len(page)-1]
		before = &storage.Position{CreatedAt: last.CreatedAt, ID: last.ID}
	}
}

type importCommand struct {
	rt      *runtime
	User    string `long:"user" required:"true" description:"Owner of rows without a user_id column"`
	File    string `long:"file" required:"true" description:"CSV file with a url column and optional title, user_id, article_id"`
	Workers int    `long:"workers" default:"4" description:"Concurrent submissions"`
}

func (c *importCommand) Execute([]string) error {
	userID, err := uuid.Parse(c.User)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, err := importer.NewCSVReader(f).Read()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	c.rt.setup()
	cfg, err := factory.LoadEnv()
	if err != nil {
		return err
	}
	store, err := factory.NewStore(ctx, *cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := importer.New(queue.NewSubmitter(store), importer.WithWorkers(c.Workers)).Run(ctx, userID, records)
	if res != nil {
		if printErr := c.rt.printJSON(res); printErr != nil {
			return printErr
		}
	}
	return err
}
