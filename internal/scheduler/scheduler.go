package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/digest"
	"github.com/DjordjeVuckovic/news-digest/internal/queue"
	"github.com/robfig/cron/v3"
)

// Job is one named cron entry.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules. A run that is still in progress
// when its next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func New(loc *time.Location, jobs ...Job) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	logger := slogLogger{}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, ctx: ctx, cancel: cancel}

	for _, job := range jobs {
		if err := s.add(job); err != nil {
			cancel()
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) add(job Job) error {
	if job.Run == nil {
		return errors.New("job must not be nil")
	}
	_, err := s.cron.AddFunc(job.Spec, func() {
		start := time.Now()
		if err := job.Run(s.ctx); err != nil {
			slog.Error("Scheduled job failed", "job", job.Name, "error", err)
			return
		}
		slog.Debug("Scheduled job finished", "job", job.Name, "took", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", job.Name, job.Spec, err)
	}
	slog.Info("Scheduled job", "job", job.Name, "spec", job.Spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of scheduled entries.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// DispatchJob runs one dispatch cycle per tick.
func DispatchJob(spec string, d *queue.Dispatcher) Job {
	return Job{
		Name: "dispatch",
		Spec: spec,
		Run: func(ctx context.Context) error {
			res, err := d.RunCycle(ctx)
			if err != nil {
				return err
			}
			if !res.Idle {
				slog.Info("Dispatch cycle finished", "processed", res.Processed)
			}
			return nil
		},
	}
}

// DigestJob generates yesterday's digests for every user per tick.
func DigestJob(spec string, a *digest.Aggregator) Job {
	return Job{
		Name: "digest",
		Spec: spec,
		Run: func(ctx context.Context) error {
			res, err := a.Run(ctx, digest.Request{})
			if err != nil {
				return err
			}
			slog.Info("Digest run finished", "date", res.Date, "users", len(res.Results))
			return nil
		},
	}
}

type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
