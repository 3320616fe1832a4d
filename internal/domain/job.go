package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobKind string

const (
	JobKindExtract JobKind = "extract"
	JobKindAnalyze JobKind = "analyze"
)

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// QueueJob is one unit of queued work advancing one article through one stage.
type QueueJob struct {
	ID             uuid.UUID  `json:"id"`
	ArticleID      uuid.UUID  `json:"article_id"`
	Kind           JobKind    `json:"job_type"`
	Status         JobStatus  `json:"status"`
	Attempts       int        `json:"attempts"`
	LastError      *string    `json:"last_error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	NextEligibleAt *time.Time `json:"next_eligible_at,omitempty"`
}

func NewQueueJob(articleID uuid.UUID, kind JobKind, now time.Time) QueueJob {
	return QueueJob{
		ID:        uuid.New(),
		ArticleID: articleID,
		Kind:      kind,
		Status:    JobPending,
		CreatedAt: now,
	}
}

// Eligible reports whether a dispatch cycle at now may claim the job.
func (j *QueueJob) Eligible(maxAttempts int, now time.Time) bool {
	if j.Status != JobPending || j.Attempts >= maxAttempts {
		return false
	}
	return j.NextEligibleAt == nil || !j.NextEligibleAt.After(now)
}
