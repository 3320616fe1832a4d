package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, article_id, job_type, status, attempts, last_error, created_at, started_at, completed_at, next_eligible_at`

// claimQuery locks the oldest eligible rows, skipping rows another
// dispatcher already holds, and flips them to processing in one statement.
const claimQuery = `
	UPDATE processing_queue
	SET status = 'processing', started_at = $3
	WHERE id IN (
		SELECT id FROM processing_queue
		WHERE status = 'pending'
		  AND attempts < $1
		  AND (next_eligible_at IS NULL OR next_eligible_at <= $3)
		ORDER BY created_at, id
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	)
	RETURNING ` + jobColumns

const failQuery = `
	UPDATE processing_queue
	SET attempts = attempts + 1,
	    last_error = $2,
	    status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'pending' END,
	    completed_at = CASE WHEN attempts + 1 >= $3 THEN $4::timestamptz ELSE NULL END,
	    next_eligible_at = CASE WHEN attempts + 1 >= $3 THEN NULL ELSE $5::timestamptz END
	WHERE id = $1 AND status = 'processing'
	RETURNING ` + jobColumns

func scanJob(row pgx.Row) (*domain.QueueJob, error) {
	var j domain.QueueJob
	if err := row.Scan(
		&j.ID,
		&j.ArticleID,
		&j.Kind,
		&j.Status,
		&j.Attempts,
		&j.LastError,
		&j.CreatedAt,
		&j.StartedAt,
		&j.CompletedAt,
		&j.NextEligibleAt,
	); err != nil {
		return nil, err
	}
	return &j, nil
}

func collectJobs(rows pgx.Rows) ([]domain.QueueJob, error) {
	defer rows.Close()

	var out []domain.QueueJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		out = append(out, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return out, nil
}

func (s *Storer) Submit(ctx context.Context, article domain.Article, job domain.QueueJob) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertArticle(ctx, tx, article); err != nil {
			return err
		}
		return insertJob(ctx, tx, job)
	})
}

func insertJob(ctx context.Context, tx pgx.Tx, j domain.QueueJob) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO processing_queue (id, article_id, job_type, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		j.ID, j.ArticleID, string(j.Kind), string(j.Status), j.Attempts, j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s job for article %s: %w", j.Kind, j.ArticleID, err)
	}
	return nil
}

func (s *Storer) ClaimPending(ctx context.Context, p storage.ClaimParams) ([]domain.QueueJob, error) {
	rows, err := s.db.Query(ctx, claimQuery, p.MaxAttempts, p.Limit, p.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending jobs: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, err
	}
	slog.Debug("claimed jobs", "count", len(jobs))
	return jobs, nil
}

func (s *Storer) Complete(ctx context.Context, jobID uuid.UUID, p storage.CompleteParams) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE processing_queue
			SET status = 'completed', completed_at = $2
			WHERE id = $1 AND status = 'processing'`, jobID, p.Now)
		if err != nil {
			return fmt.Errorf("failed to complete job %s: %w", jobID, err)
		}
		if tag.RowsAffected() == 0 {
			return s.missingOrNotProcessing(ctx, tx, jobID)
		}
		if p.Next == nil {
			return nil
		}
		return insertJob(ctx, tx, *p.Next)
	})
}

func (s *Storer) Release(ctx context.Context, jobID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE processing_queue
		SET status = 'pending', started_at = NULL
		WHERE id = $1 AND status = 'processing'`, jobID)
	if err != nil {
		return fmt.Errorf("failed to release job %s: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrNotProcessing(ctx, s.db, jobID)
	}
	return nil
}

func (s *Storer) Fail(ctx context.Context, jobID uuid.UUID, p storage.FailParams) (*domain.QueueJob, error) {
	j, err := scanJob(s.db.QueryRow(ctx, failQuery, jobID, p.Error, p.MaxAttempts, p.Now, p.RetryAt))
	if isNoRows(err) {
		return nil, s.missingOrNotProcessing(ctx, s.db, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record failure for job %s: %w", jobID, err)
	}
	return j, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Storer) missingOrNotProcessing(ctx context.Context, q querier, jobID uuid.UUID) error {
	var status string
	err := q.QueryRow(ctx, `SELECT status FROM processing_queue WHERE id = $1`, jobID).Scan(&status)
	if isNoRows(err) {
		return apperr.NewNotFound("job", jobID.String())
	}
	if err != nil {
		return fmt.Errorf("failed to read job %s: %w", jobID, err)
	}
	return fmt.Errorf("job %s is %s: %w", jobID, status, storage.ErrJobNotProcessing)
}

func (s *Storer) GetJob(ctx context.Context, id uuid.UUID) (*domain.QueueJob, error) {
	j, err := scanJob(s.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM processing_queue WHERE id = $1`, id))
	if isNoRows(err) {
		return nil, apperr.NewNotFound("job", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return j, nil
}

func (s *Storer) ListJobs(ctx context.Context, articleID uuid.UUID) ([]domain.QueueJob, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+jobColumns+` FROM processing_queue WHERE article_id = $1 ORDER BY created_at, id`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs for article %s: %w", articleID, err)
	}
	return collectJobs(rows)
}
