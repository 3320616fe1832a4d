package in_mem

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

func submit(t *testing.T, s *InMemStorer, user uuid.UUID, createdAt time.Time) (domain.Article, domain.QueueJob) {
	t.Helper()
	a := domain.Article{
		ID:        uuid.New(),
		UserID:    user,
		URL:       "https://example.com/" + uuid.NewString(),
		Status:    domain.ArticleSubmitted,
		CreatedAt: createdAt,
	}
	j := domain.NewQueueJob(a.ID, domain.JobKindExtract, createdAt)
	require.NoError(t, s.Submit(context.Background(), a, j))
	return a, j
}

func claimParams(limit int, now time.Time) storage.ClaimParams {
	return storage.ClaimParams{Limit: limit, MaxAttempts: 3, Now: now}
}

func TestSubmit_DuplicateIsConflict(t *testing.T) {
	s := NewInMemStorer()
	a, j := submit(t, s, uuid.New(), base)

	err := s.Submit(context.Background(), a, j)
	var ce *apperr.ConflictError
	assert.True(t, errors.As(err, &ce))
}

func TestClaimPending_MarksProcessing(t *testing.T) {
	s := NewInMemStorer()
	_, j := submit(t, s, uuid.New(), base)

	claimed, err := s.ClaimPending(context.Background(), claimParams(5, base.Add(time.Minute)))
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, j.ID, claimed[0].ID)
	assert.Equal(t, domain.JobProcessing, claimed[0].Status)
	require.NotNil(t, claimed[0].StartedAt)
	assert.Equal(t, base.Add(time.Minute), *claimed[0].StartedAt)

	again, err := s.ClaimPending(context.Background(), claimParams(5, base.Add(time.Minute)))
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestClaimPending_ConcurrentClaimsAreDisjoint(t *testing.T) {
	s := NewInMemStorer()
	for i := 0; i < 20; i++ {
		submit(t, s, uuid.New(), base.Add(time.Duration(i)*time.Second))
	}

	var (
		mu   sync.Mutex
		seen = make(map[uuid.UUID]int)
		wg   sync.WaitGroup
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				claimed, err := s.ClaimPending(context.Background(), claimParams(3, base.Add(time.Hour)))
				if !assert.NoError(t, err) || len(claimed) == 0 {
					return
				}
				mu.Lock()
				for _, j := range claimed {
					seen[j.ID]++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 20)
	for id, n := range seen {
		assert.Equal(t, 1, n, "job %s claimed %d times", id, n)
	}
}

func TestClaimPending_SkipsExhaustedAndDeferred(t *testing.T) {
	s := NewInMemStorer()
	_, exhausted := submit(t, s, uuid.New(), base)
	exhausted.Attempts = 3
	s.PutJob(exhausted)

	_, deferred := submit(t, s, uuid.New(), base)
	later := base.Add(time.Hour)
	deferred.NextEligibleAt = &later
	s.PutJob(deferred)

	claimed, err := s.ClaimPending(context.Background(), claimParams(5, base.Add(time.Minute)))
	require.NoError(t, err)
	assert.Empty(t, claimed)

	claimed, err = s.ClaimPending(context.Background(), claimParams(5, later))
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, deferred.ID, claimed[0].ID)
}

func TestFail_RetryThenCeiling(t *testing.T) {
	s := NewInMemStorer()
	_, j := submit(t, s, uuid.New(), base)
	fp := storage.FailParams{Error: "boom", MaxAttempts: 2, Now: base}

	_, err := s.ClaimPending(context.Background(), claimParams(1, base))
	require.NoError(t, err)
	got, err := s.Fail(context.Background(), j.ID, fp)
	require.NoError(t, err)
	assert.Equal(t, domain.JobPending, got.Status)
	assert.Equal(t, 1, got.Attempts)

	_, err = s.ClaimPending(context.Background(), storage.ClaimParams{Limit: 1, MaxAttempts: 2, Now: base})
	require.NoError(t, err)
	got, err = s.Fail(context.Background(), j.ID, fp)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, got.Status)
	assert.Equal(t, 2, got.Attempts)
	assert.NotNil(t, got.CompletedAt)

	// terminal jobs take no further writes
	_, err = s.Fail(context.Background(), j.ID, fp)
	assert.ErrorIs(t, err, storage.ErrJobNotProcessing)
	assert.ErrorIs(t, s.Complete(context.Background(), j.ID, storage.CompleteParams{Now: base}), storage.ErrJobNotProcessing)
}

func TestComplete_EnqueuesFollowOn(t *testing.T) {
	s := NewInMemStorer()
	a, j := submit(t, s, uuid.New(), base)

	_, err := s.ClaimPending(context.Background(), claimParams(1, base))
	require.NoError(t, err)

	next := domain.NewQueueJob(a.ID, domain.JobKindAnalyze, base.Add(time.Second))
	doneAt := base.Add(2 * time.Second)
	require.NoError(t, s.Complete(context.Background(), j.ID, storage.CompleteParams{Next: &next, Now: doneAt}))

	jobs, err := s.ListJobs(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, domain.JobCompleted, jobs[0].Status)
	require.NotNil(t, jobs[0].CompletedAt)
	assert.Equal(t, doneAt, *jobs[0].CompletedAt)
	assert.Equal(t, domain.JobKindAnalyze, jobs[1].Kind)
}

func TestRelease_KeepsAttempts(t *testing.T) {
	s := NewInMemStorer()
	_, j := submit(t, s, uuid.New(), base)
	ctx := context.Background()

	_, err := s.ClaimPending(ctx, claimParams(1, base))
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, j.ID))

	got, err := s.GetJob(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobPending, got.Status)
	assert.Zero(t, got.Attempts)
	assert.Nil(t, got.StartedAt)

	assert.ErrorIs(t, s.Release(ctx, j.ID), storage.ErrJobNotProcessing)
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(s.Release(ctx, uuid.New()), &nf))

	claimed, err := s.ClaimPending(ctx, claimParams(1, base))
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, j.ID, claimed[0].ID)
}

func TestClaimPending_EqualTimestampsOrderByID(t *testing.T) {
	s := NewInMemStorer()
	var ids []string
	for i := 0; i < 5; i++ {
		_, j := submit(t, s, uuid.New(), base)
		ids = append(ids, j.ID.String())
	}
	slices.Sort(ids)

	for _, want := range ids {
		claimed, err := s.ClaimPending(context.Background(), claimParams(1, base))
		require.NoError(t, err)
		require.Len(t, claimed, 1)
		assert.Equal(t, want, claimed[0].ID.String())
	}
}

func TestArticleTransitions(t *testing.T) {
	s := NewInMemStorer()
	a, _ := submit(t, s, uuid.New(), base)
	ctx := context.Background()

	assert.ErrorIs(t, s.SaveAnalysis(ctx, a.ID, domain.Analysis{Summary: "x"}), storage.ErrStaleTransition)

	require.NoError(t, s.MarkExtracting(ctx, a.ID))
	require.NoError(t, s.MarkExtracting(ctx, a.ID))
	require.NoError(t, s.SaveExtraction(ctx, a.ID, domain.Extraction{Title: "T", Content: "C"}))
	require.NoError(t, s.SaveAnalysis(ctx, a.ID, domain.Analysis{Summary: "S"}))

	got, err := s.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ArticleReady, got.Status)
	assert.Equal(t, "S", got.Analysis.Summary)

	assert.ErrorIs(t, s.MarkFailed(ctx, a.ID, "late"), storage.ErrStaleTransition)

	var nf *apperr.NotFoundError
	assert.True(t, errors.As(s.MarkExtracting(ctx, uuid.New()), &nf))
}

func TestListArticles_FilterAndCursor(t *testing.T) {
	s := NewInMemStorer()
	user := uuid.New()
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		a, _ := submit(t, s, user, base.Add(time.Duration(i)*time.Hour))
		ids = append(ids, a.ID)
	}
	submit(t, s, uuid.New(), base)

	page, err := s.ListArticles(ctx, storage.ArticleFilter{UserID: user, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	last := page[1]
	page, err = s.ListArticles(ctx, storage.ArticleFilter{
		UserID: user,
		Limit:  10,
		Before: &storage.Position{CreatedAt: last.CreatedAt, ID: last.ID},
	})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, ids[2], page[0].ID)

	from, to := base.Add(time.Hour), base.Add(3*time.Hour)
	page, err = s.ListArticles(ctx, storage.ArticleFilter{UserID: user, CreatedFrom: &from, CreatedTo: &to})
	require.NoError(t, err)
	assert.Len(t, page, 3)

	page, err = s.ListArticles(ctx, storage.ArticleFilter{UserID: user, Status: domain.ArticleReady})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestUpsertDigest_ReplacesSameDay(t *testing.T) {
	s := NewInMemStorer()
	ctx := context.Background()
	user := uuid.New()

	first, err := s.UpsertDigest(ctx, domain.Digest{UserID: user, Date: "2026-05-09", OverallSummary: "v1"})
	require.NoError(t, err)
	second, err := s.UpsertDigest(ctx, domain.Digest{UserID: user, Date: "2026-05-09", OverallSummary: "v2"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, s.DigestCount())

	got, err := s.GetDigest(ctx, user, "2026-05-09")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.OverallSummary)

	_, err = s.UpsertDigest(ctx, domain.Digest{UserID: user, Date: "2026-05-10", OverallSummary: "v1"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.DigestCount())
}

func TestSettings(t *testing.T) {
	s := NewInMemStorer()
	ctx := context.Background()
	u := uuid.New()

	_, err := s.GetSettings(ctx, u)
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))

	require.NoError(t, s.UpsertSettings(ctx, domain.UserSettings{UserID: u, PushToken: "tok", PushNotifications: true}))
	got, err := s.GetSettings(ctx, u)
	require.NoError(t, err)
	assert.True(t, got.CanPush())

	ids, err := s.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{u}, ids)
}
