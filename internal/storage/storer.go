package storage

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/google/uuid"
)

// ArticleStore persists articles. Status writes are conditional on the
// article state machine; a write from a disallowed status is a no-op that
// returns ErrStaleTransition.
type ArticleStore interface {
	GetArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	ListArticles(ctx context.Context, f ArticleFilter) ([]domain.Article, error)

	MarkExtracting(ctx context.Context, id uuid.UUID) error
	SaveExtraction(ctx context.Context, id uuid.UUID, e domain.Extraction) error
	SaveAnalysis(ctx context.Context, id uuid.UUID, a domain.Analysis) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}

// QueueStore persists queue jobs. ClaimPending is the only operation with
// cross-process atomicity requirements.
type QueueStore interface {
	// Submit creates the article and its first job in one write.
	Submit(ctx context.Context, article domain.Article, job domain.QueueJob) error
	ClaimPending(ctx context.Context, p ClaimParams) ([]domain.QueueJob, error)
	// Complete resolves a processing job and enqueues p.Next, if any, atomically.
	Complete(ctx context.Context, jobID uuid.UUID, p CompleteParams) error
	// Fail records one failed attempt and returns the resolved job.
	Fail(ctx context.Context, jobID uuid.UUID, p FailParams) (*domain.QueueJob, error)
	// Release puts a processing job back to pending without counting an
	// attempt. Used when the run was interrupted rather than failed.
	Release(ctx context.Context, jobID uuid.UUID) error
	GetJob(ctx context.Context, id uuid.UUID) (*domain.QueueJob, error)
	ListJobs(ctx context.Context, articleID uuid.UUID) ([]domain.QueueJob, error)
}

type DigestStore interface {
	UpsertDigest(ctx context.Context, d domain.Digest) (*domain.Digest, error)
	GetDigest(ctx context.Context, userID uuid.UUID, date string) (*domain.Digest, error)
}

type SettingsStore interface {
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
	GetSettings(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error)
	UpsertSettings(ctx context.Context, s domain.UserSettings) error
}

// Store bundles every repository a backend provides.
type Store interface {
	ArticleStore
	QueueStore
	DigestStore
	SettingsStore
	Ping(ctx context.Context) error
	Close()
}

type ArticleFilter struct {
	UserID      uuid.UUID
	Status      domain.ArticleStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	// Before continues a newest-first listing after the given position.
	Before *Position
	Limit  int
}

// Position identifies an article in a (created_at desc, id desc) ordering.
type Position struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type ClaimParams struct {
	Limit       int
	MaxAttempts int
	Now         time.Time
}

type CompleteParams struct {
	Next *domain.QueueJob
	Now  time.Time
}

type FailParams struct {
	Error       string
	MaxAttempts int
	// RetryAt is stored as next_eligible_at when the job goes back to pending.
	RetryAt *time.Time
	Now     time.Time
}

type Type string

const (
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type"
	ErrStaleTransition   StorerError = "stale status transition"
	ErrJobNotProcessing  StorerError = "job is not processing"
)

func (e StorerError) Error() string {
	return string(e)
}
