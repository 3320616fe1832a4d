package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/queue"
	"github.com/google/uuid"
)

const (
	ColumnURL       = "url"
	ColumnTitle     = "title"
	ColumnUserID    = "user_id"
	ColumnArticleID = "article_id"

	defaultWorkers = 4
)

type Enqueuer interface {
	Enqueue(ctx context.Context, sub queue.Submission) (*domain.Article, *domain.QueueJob, error)
}

type Option func(*Importer)

// Importer submits many article URLs through the regular submission path.
type Importer struct {
	enqueuer Enqueuer
	workers  int
}

func New(enqueuer Enqueuer, opts ...Option) *Importer {
	i := &Importer{enqueuer: enqueuer, workers: defaultWorkers}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func WithWorkers(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.workers = n
		}
	}
}

type RowError struct {
	// Row is the 1-based data row, not counting the header.
	Row   int    `json:"row"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

type Result struct {
	Submitted  int        `json:"submitted"`
	Duplicates int        `json:"duplicates"`
	Invalid    int        `json:"invalid"`
	Failed     int        `json:"failed"`
	Errors     []RowError `json:"errors,omitempty"`
}

type row struct {
	n      int
	record map[string]string
}

// Run submits every record. A record's user_id column overrides
// defaultUser. Per-row failures are counted, not returned.
func (i *Importer) Run(ctx context.Context, defaultUser uuid.UUID, records []map[string]string) (*Result, error) {
	if len(records) > 0 {
		if _, ok := records[0][ColumnURL]; !ok {
			return nil, apperr.NewValidation("csv must have a url column")
		}
	}

	var (
		mu  sync.Mutex
		res = &Result{}
		wg  sync.WaitGroup
	)
	rows := make(chan row)

	wg.Add(i.workers)
	for w := 0; w < i.workers; w++ {
		go func() {
			defer wg.Done()
			for r := range rows {
				err := i.submit(ctx, defaultUser, r.record)
				mu.Lock()
				res.record(r, err)
				mu.Unlock()
			}
		}()
	}

feed:
	for n, record := range records {
		select {
		case rows <- row{n: n + 1, record: record}:
		case <-ctx.Done():
			break feed
		}
	}
	close(rows)
	wg.Wait()

	sort.Slice(res.Errors, func(a, b int) bool { return res.Errors[a].Row < res.Errors[b].Row })
	slog.Info("Import finished",
		"submitted", res.Submitted,
		"duplicates", res.Duplicates,
		"invalid", res.Invalid,
		"failed", res.Failed)

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("import interrupted: %w", err)
	}
	return res, nil
}

func (i *Importer) submit(ctx context.Context, defaultUser uuid.UUID, record map[string]string) error {
	sub := queue.Submission{
		UserID: defaultUser,
		URL:    record[ColumnURL],
		Title:  record[ColumnTitle],
	}
	if v := record[ColumnUserID]; v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperr.NewValidationWrap("invalid user_id", err)
		}
		sub.UserID = id
	}
	if v := record[ColumnArticleID]; v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperr.NewValidationWrap("invalid article_id", err)
		}
		sub.ArticleID = &id
	}

	_, _, err := i.enqueuer.Enqueue(ctx, sub)
	return err
}

func (r *Result) record(rw row, err error) {
	if err == nil {
		r.Submitted++
		return
	}

	var (
		ce *apperr.ConflictError
		ve *apperr.ValidationError
	)
	switch {
	case errors.As(err, &ce):
		r.Duplicates++
	case errors.As(err, &ve):
		r.Invalid++
	default:
		r.Failed++
	}
	r.Errors = append(r.Errors, RowError{Row: rw.n, URL: rw.record[ColumnURL], Error: err.Error()})
}
