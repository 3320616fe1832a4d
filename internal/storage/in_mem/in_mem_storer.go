package in_mem

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
)

var _ storage.Store = (*InMemStorer)(nil)

// InMemStorer keeps every record in process memory. A single RWMutex makes
// each operation atomic, which gives ClaimPending the same exclusivity the
// postgres backend gets from SELECT ... FOR UPDATE SKIP LOCKED.
type InMemStorer struct {
	storageLock sync.RWMutex
	articles    map[uuid.UUID]domain.Article
	jobs        map[uuid.UUID]domain.QueueJob
	digests     map[digestKey]domain.Digest
	settings    map[uuid.UUID]domain.UserSettings

	now func() time.Time
}

type digestKey struct {
	userID uuid.UUID
	date   string
}

type Option func(*InMemStorer)

// WithClock overrides the timestamp source used for created/updated fields.
func WithClock(now func() time.Time) Option {
	return func(s *InMemStorer) {
		s.now = now
	}
}

func NewInMemStorer(opts ...Option) *InMemStorer {
	s := &InMemStorer{
		articles: make(map[uuid.UUID]domain.Article),
		jobs:     make(map[uuid.UUID]domain.QueueJob),
		digests:  make(map[digestKey]domain.Digest),
		settings: make(map[uuid.UUID]domain.UserSettings),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemStorer) Ping(_ context.Context) error { return nil }

func (s *InMemStorer) Close() {}

// PutArticle inserts or replaces an article as-is. Used for seeding.
func (s *InMemStorer) PutArticle(a domain.Article) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.articles[a.ID] = cloneArticle(a)
}

// PutJob inserts or replaces a job as-is. Used for seeding.
func (s *InMemStorer) PutJob(j domain.QueueJob) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.jobs[j.ID] = j
}

// DeleteArticle removes an article, simulating a concurrent user delete.
func (s *InMemStorer) DeleteArticle(id uuid.UUID) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	delete(s.articles, id)
}

// DigestCount returns the number of stored digests.
func (s *InMemStorer) DigestCount() int {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	return len(s.digests)
}

func (s *InMemStorer) GetArticle(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, apperr.NewNotFound("article", id.String())
	}
	out := cloneArticle(a)
	return &out, nil
}

func (s *InMemStorer) ListArticles(_ context.Context, f storage.ArticleFilter) ([]domain.Article, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	var out []domain.Article
	for _, a := range s.articles {
		if f.UserID != uuid.Nil && a.UserID != f.UserID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.CreatedFrom != nil && a.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && a.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		if f.Before != nil && !before(a, *f.Before) {
			continue
		}
		out = append(out, cloneArticle(a))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func before(a domain.Article, p storage.Position) bool {
	if a.CreatedAt.Equal(p.CreatedAt) {
		return a.ID.String() < p.ID.String()
	}
	return a.CreatedAt.Before(p.CreatedAt)
}

func (s *InMemStorer) MarkExtracting(_ context.Context, id uuid.UUID) error {
	return s.transition(id, domain.ArticleExtracting, nil)
}

func (s *InMemStorer) SaveExtraction(_ context.Context, id uuid.UUID, e domain.Extraction) error {
	return s.transition(id, domain.ArticleAnalyzing, func(a *domain.Article) {
		a.Apply(e)
	})
}

func (s *InMemStorer) SaveAnalysis(_ context.Context, id uuid.UUID, an domain.Analysis) error {
	return s.transition(id, domain.ArticleReady, func(a *domain.Article) {
		a.Analysis = &an
	})
}

func (s *InMemStorer) MarkFailed(_ context.Context, id uuid.UUID, message string) error {
	return s.transition(id, domain.ArticleFailed, func(a *domain.Article) {
		a.Error = &message
	})
}

func (s *InMemStorer) transition(id uuid.UUID, next domain.ArticleStatus, mutate func(*domain.Article)) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return apperr.NewNotFound("article", id.String())
	}
	if !a.Status.CanTransition(next) {
		return fmt.Errorf("article %s %s -> %s: %w", id, a.Status, next, storage.ErrStaleTransition)
	}
	if mutate != nil {
		mutate(&a)
	}
	a.Status = next
	a.UpdatedAt = s.now()
	s.articles[id] = cloneArticle(a)
	return nil
}

func (s *InMemStorer) Submit(_ context.Context, article domain.Article, job domain.QueueJob) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if _, exists := s.articles[article.ID]; exists {
		return apperr.NewConflict("article %s already exists", article.ID)
	}
	now := s.now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	s.articles[article.ID] = cloneArticle(article)
	s.jobs[job.ID] = job
	return nil
}

func (s *InMemStorer) ClaimPending(_ context.Context, p storage.ClaimParams) ([]domain.QueueJob, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	var eligible []domain.QueueJob
	for _, j := range s.jobs {
		if j.Eligible(p.MaxAttempts, p.Now) {
			eligible = append(eligible, j)
		}
	}
	sort.Slice(eligible, func(i, k int) bool {
		if eligible[i].CreatedAt.Equal(eligible[k].CreatedAt) {
			return eligible[i].ID.String() < eligible[k].ID.String()
		}
		return eligible[i].CreatedAt.Before(eligible[k].CreatedAt)
	})
	if p.Limit > 0 && len(eligible) > p.Limit {
		eligible = eligible[:p.Limit]
	}

	for i := range eligible {
		started := p.Now
		eligible[i].Status = domain.JobProcessing
		eligible[i].StartedAt = &started
		s.jobs[eligible[i].ID] = eligible[i]
	}

	slog.Debug("claimed jobs", "count", len(eligible))
	return eligible, nil
}

func (s *InMemStorer) Complete(_ context.Context, jobID uuid.UUID, p storage.CompleteParams) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return apperr.NewNotFound("job", jobID.String())
	}
	if j.Status != domain.JobProcessing {
		return fmt.Errorf("complete job %s: %w", jobID, storage.ErrJobNotProcessing)
	}

	now := p.Now
	j.Status = domain.JobCompleted
	j.CompletedAt = &now
	s.jobs[jobID] = j

	if p.Next != nil {
		s.jobs[p.Next.ID] = *p.Next
	}
	return nil
}

func (s *InMemStorer) Release(_ context.Context, jobID uuid.UUID) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return apperr.NewNotFound("job", jobID.String())
	}
	if j.Status != domain.JobProcessing {
		return fmt.Errorf("release job %s: %w", jobID, storage.ErrJobNotProcessing)
	}
	j.Status = domain.JobPending
	j.StartedAt = nil
	s.jobs[jobID] = j
	return nil
}

func (s *InMemStorer) Fail(_ context.Context, jobID uuid.UUID, p storage.FailParams) (*domain.QueueJob, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, apperr.NewNotFound("job", jobID.String())
	}
	if j.Status != domain.JobProcessing {
		return nil, fmt.Errorf("fail job %s: %w", jobID, storage.ErrJobNotProcessing)
	}

	msg := p.Error
	j.Attempts++
	j.LastError = &msg
	if j.Attempts >= p.MaxAttempts {
		now := p.Now
		j.Status = domain.JobFailed
		j.CompletedAt = &now
		j.NextEligibleAt = nil
	} else {
		j.Status = domain.JobPending
		j.NextEligibleAt = p.RetryAt
	}
	s.jobs[jobID] = j

	out := j
	return &out, nil
}

func (s *InMemStorer) GetJob(_ context.Context, id uuid.UUID) (*domain.QueueJob, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, apperr.NewNotFound("job", id.String())
	}
	return &j, nil
}

func (s *InMemStorer) ListJobs(_ context.Context, articleID uuid.UUID) ([]domain.QueueJob, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	var out []domain.QueueJob
	for _, j := range s.jobs {
		if j.ArticleID == articleID {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out, nil
}

func (s *InMemStorer) UpsertDigest(_ context.Context, d domain.Digest) (*domain.Digest, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	key := digestKey{userID: d.UserID, date: d.Date}
	now := s.now()
	if existing, ok := s.digests[key]; ok {
		d.ID = existing.ID
		d.CreatedAt = existing.CreatedAt
	} else {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	s.digests[key] = d

	out := d
	return &out, nil
}

func (s *InMemStorer) GetDigest(_ context.Context, userID uuid.UUID, date string) (*domain.Digest, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	d, ok := s.digests[digestKey{userID: userID, date: date}]
	if !ok {
		return nil, apperr.NewNotFound("digest", userID.String()+"/"+date)
	}
	return &d, nil
}

func (s *InMemStorer) ListUserIDs(_ context.Context) ([]uuid.UUID, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.settings))
	for id := range s.settings {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids, nil
}

func (s *InMemStorer) GetSettings(_ context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	st, ok := s.settings[userID]
	if !ok {
		return nil, apperr.NewNotFound("settings", userID.String())
	}
	return &st, nil
}

func (s *InMemStorer) UpsertSettings(_ context.Context, st domain.UserSettings) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	st.UpdatedAt = s.now()
	s.settings[st.UserID] = st
	slog.Info("Saved user settings to in-memory storage", "user_id", st.UserID)
	return nil
}

func cloneArticle(a domain.Article) domain.Article {
	a.Images = slices.Clone(a.Images)
	a.Comments = slices.Clone(a.Comments)
	if a.Analysis != nil {
		an := *a.Analysis
		an.KeyPoints = slices.Clone(an.KeyPoints)
		an.Topics = slices.Clone(an.Topics)
		an.ImageAnalyses = slices.Clone(an.ImageAnalyses)
		a.Analysis = &an
	}
	return a
}
