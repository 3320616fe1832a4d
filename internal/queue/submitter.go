package queue

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
)

// Submission is an article handed in by a client.
type Submission struct {
	ArticleID *uuid.UUID
	UserID    uuid.UUID
	URL       string
	Title     string
}

// Submitter creates articles together with their first extract job.
type Submitter struct {
	store storage.QueueStore
	now   func() time.Time
}

func NewSubmitter(store storage.QueueStore) *Submitter {
	return &Submitter{store: store, now: time.Now}
}

func (s *Submitter) Enqueue(ctx context.Context, sub Submission) (*domain.Article, *domain.QueueJob, error) {
	if sub.UserID == uuid.Nil {
		return nil, nil, apperr.NewValidation("user_id is required")
	}
	articleURL, err := validateURL(sub.URL)
	if err != nil {
		return nil, nil, err
	}

	id := uuid.New()
	if sub.ArticleID != nil && *sub.ArticleID != uuid.Nil {
		id = *sub.ArticleID
	}

	now := s.now().UTC()
	article := domain.Article{
		ID:        id,
		UserID:    sub.UserID,
		URL:       articleURL,
		Title:     strings.TrimSpace(sub.Title),
		Status:    domain.ArticleSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job := domain.NewQueueJob(id, domain.JobKindExtract, now)

	if err := s.store.Submit(ctx, article, job); err != nil {
		return nil, nil, fmt.Errorf("submit article: %w", err)
	}

	slog.Info("Article queued", "article_id", id, "job_id", job.ID, "url", articleURL)
	return &article, &job, nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperr.NewValidation("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", apperr.NewValidationWrap("invalid url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperr.NewValidation("url must use http or https")
	}
	if u.Host == "" {
		return "", apperr.NewValidation("url must include a host")
	}
	return u.String(), nil
}
