package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
)

// Stage advances one article through one job kind. A non-empty next kind
// asks the dispatcher to enqueue a follow-on job.
type Stage interface {
	Run(ctx context.Context, articleID uuid.UUID) (next domain.JobKind, err error)
}

const bookkeepingTimeout = 15 * time.Second

type DispatcherOption func(*Dispatcher)

// Dispatcher runs bounded dispatch cycles over the processing queue.
type Dispatcher struct {
	jobs     storage.QueueStore
	articles storage.ArticleStore
	stages   map[domain.JobKind]Stage
	cfg      Config
	backoff  Backoff
	now      func() time.Time
}

func NewDispatcher(jobs storage.QueueStore, articles storage.ArticleStore, stages map[domain.JobKind]Stage, cfg Config, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		jobs:     jobs,
		articles: articles,
		stages:   stages,
		cfg:      cfg,
		backoff:  Backoff{Base: cfg.BackoffBase, Max: cfg.BackoffMax},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func WithBackoff(b Backoff) DispatcherOption {
	return func(d *Dispatcher) {
		d.backoff = b
	}
}

type JobOutcome struct {
	JobID     uuid.UUID        `json:"job_id"`
	ArticleID uuid.UUID        `json:"article_id"`
	Kind      domain.JobKind   `json:"job_type"`
	Status    domain.JobStatus `json:"status"`
	Attempts  int              `json:"attempts"`
	// Result names the follow-on job kind enqueued on success.
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type CycleResult struct {
	// Idle is set when no job was eligible.
	Idle      bool         `json:"-"`
	Processed int          `json:"processed"`
	Summary   []JobOutcome `json:"summary"`
}

// RunCycle claims up to MaxConcurrent eligible jobs and runs them
// concurrently. Only a failed claim is returned as an error; job failures
// are reported in the summary.
func (d *Dispatcher) RunCycle(ctx context.Context) (*CycleResult, error) {
	jobs, err := d.jobs.ClaimPending(ctx, storage.ClaimParams{
		Limit:       d.cfg.MaxConcurrent,
		MaxAttempts: d.cfg.MaxRetries,
		Now:         d.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("claim pending jobs: %w", err)
	}
	if len(jobs) == 0 {
		slog.Debug("No pending jobs")
		return &CycleResult{Idle: true}, nil
	}

	slog.Info("Processing jobs", "count", len(jobs))

	outcomes := make([]JobOutcome, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job domain.QueueJob) {
			defer wg.Done()
			outcomes[i] = d.process(ctx, job)
		}(i, job)
	}
	wg.Wait()

	return &CycleResult{Processed: len(jobs), Summary: outcomes}, nil
}

func (d *Dispatcher) process(ctx context.Context, job domain.QueueJob) JobOutcome {
	next, runErr := d.execute(ctx, job)

	// Resolution writes must land even when the cycle context is cancelled.
	bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
	defer cancel()

	// A cancelled caller is not a stage failure: hand the job back untouched.
	if runErr != nil && ctx.Err() != nil {
		return d.release(bctx, job, runErr)
	}
	if runErr != nil {
		slog.Error("Job failed", "job_id", job.ID, "job_type", job.Kind, "attempt", job.Attempts+1, "error", runErr)
		return d.fail(bctx, job, runErr)
	}
	return d.complete(bctx, job, next)
}

func (d *Dispatcher) execute(ctx context.Context, job domain.QueueJob) (next domain.JobKind, err error) {
	stage, ok := d.stages[job.Kind]
	if !ok {
		return "", fmt.Errorf("unknown job type: %s", job.Kind)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.cfg.JobTimeout)
	defer cancel()

	return stage.Run(ctx, job.ArticleID)
}

func (d *Dispatcher) complete(ctx context.Context, job domain.QueueJob, next domain.JobKind) JobOutcome {
	out := JobOutcome{
		JobID:     job.ID,
		ArticleID: job.ArticleID,
		Kind:      job.Kind,
		Attempts:  job.Attempts,
	}

	var follow *domain.QueueJob
	if next != "" {
		j := domain.NewQueueJob(job.ArticleID, next, d.now())
		follow = &j
		out.Result = string(next) + " enqueued"
	}

	if err := d.jobs.Complete(ctx, job.ID, storage.CompleteParams{Next: follow, Now: d.now()}); err != nil {
		slog.Error("Failed to complete job", "job_id", job.ID, "error", err)
		out.Status = domain.JobProcessing
		out.Result = ""
		out.Error = fmt.Sprintf("complete job: %v", err)
		return out
	}

	out.Status = domain.JobCompleted
	slog.Info("Job completed", "job_id", job.ID, "job_type", job.Kind, "next", next)
	return out
}

func (d *Dispatcher) release(ctx context.Context, job domain.QueueJob, runErr error) JobOutcome {
	out := JobOutcome{
		JobID:     job.ID,
		ArticleID: job.ArticleID,
		Kind:      job.Kind,
		Status:    domain.JobProcessing,
		Attempts:  job.Attempts,
		Error:     fmt.Sprintf("interrupted: %v", runErr),
	}

	if err := d.jobs.Release(ctx, job.ID); err != nil {
		slog.Error("Failed to release interrupted job", "job_id", job.ID, "error", err)
		return out
	}

	out.Status = domain.JobPending
	slog.Warn("Job interrupted, released to pending", "job_id", job.ID, "job_type", job.Kind, "error", runErr)
	return out
}

func (d *Dispatcher) fail(ctx context.Context, job domain.QueueJob, runErr error) JobOutcome {
	msg := runErr.Error()
	now := d.now()
	out := JobOutcome{
		JobID:     job.ID,
		ArticleID: job.ArticleID,
		Kind:      job.Kind,
		Status:    domain.JobProcessing,
		Attempts:  job.Attempts,
		Error:     msg,
	}

	resolved, err := d.jobs.Fail(ctx, job.ID, storage.FailParams{
		Error:       msg,
		MaxAttempts: d.cfg.MaxRetries,
		RetryAt:     d.backoff.RetryAt(now, job.Attempts+1),
		Now:         now,
	})
	if err != nil {
		slog.Error("Failed to record job failure", "job_id", job.ID, "error", err)
		return out
	}

	out.Status = resolved.Status
	out.Attempts = resolved.Attempts

	if resolved.Status != domain.JobFailed {
		return out
	}

	slog.Warn("Job exhausted retries", "job_id", job.ID, "article_id", job.ArticleID, "attempts", resolved.Attempts)
	if err := d.articles.MarkFailed(ctx, job.ArticleID, msg); err != nil {
		var nf *apperr.NotFoundError
		switch {
		case errors.As(err, &nf):
			slog.Warn("Article of failed job no longer exists", "article_id", job.ArticleID)
		case errors.Is(err, storage.ErrStaleTransition):
			slog.Warn("Article already terminal", "article_id", job.ArticleID, "error", err)
		default:
			slog.Error("Failed to mark article failed", "article_id", job.ArticleID, "error", err)
		}
	}
	return out
}
