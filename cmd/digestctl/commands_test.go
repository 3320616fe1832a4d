package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/digest"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/in_mem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndexer struct {
	batches [][]domain.Article
	err     error
}

func (r *recordingIndexer) IndexBulk(_ context.Context, articles []domain.Article) error {
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, articles)
	return nil
}

func seedArticles(store *in_mem.InMemStorer, userID uuid.UUID, ready, other int) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < ready+other; i++ {
		status := domain.ArticleReady
		if i >= ready {
			status = domain.ArticleSubmitted
		}
		store.PutArticle(domain.Article{
			ID:        uuid.New(),
			UserID:    userID,
			URL:       "https://example.com/a",
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestReindex_PagesThroughReadyArticles(t *testing.T) {
	store := in_mem.NewInMemStorer()
	userID := uuid.New()
	seedArticles(store, userID, 5, 2)
	seedArticles(store, uuid.New(), 3, 0)

	idx := &recordingIndexer{}
	n, err := reindex(context.Background(), store, idx, userID, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	require.Len(t, idx.batches, 3)
	assert.Len(t, idx.batches[0], 2)
	assert.Len(t, idx.batches[2], 1)

	seen := map[uuid.UUID]bool{}
	for _, b := range idx.batches {
		for _, a := range b {
			assert.Equal(t, userID, a.UserID)
			assert.Equal(t, domain.ArticleReady, a.Status)
			seen[a.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestReindex_NoArticles(t *testing.T) {
	idx := &recordingIndexer{}
	n, err := reindex(context.Background(), in_mem.NewInMemStorer(), idx, uuid.New(), 0)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, idx.batches)
}

func TestReindex_IndexerError(t *testing.T) {
	store := in_mem.NewInMemStorer()
	userID := uuid.New()
	seedArticles(store, userID, 1, 0)

	_, err := reindex(context.Background(), store, &recordingIndexer{err: errors.New("es down")}, userID, 10)
	assert.ErrorContains(t, err, "es down")
}

func TestDigestCommand_Request(t *testing.T) {
	id := uuid.New()

	req, err := (&digestCommand{User: id.String(), Date: "2026-03-01"}).request()
	require.NoError(t, err)
	require.NotNil(t, req.UserID)
	assert.Equal(t, id, *req.UserID)
	assert.Equal(t, "2026-03-01", req.Date)

	req, err = (&digestCommand{}).request()
	require.NoError(t, err)
	assert.Nil(t, req.UserID)

	_, err = (&digestCommand{User: "nope"}).request()
	assert.ErrorContains(t, err, "invalid --user")
}

func TestFailedUsers(t *testing.T) {
	ok := &digest.RunResult{Results: []digest.UserResult{{Success: true}, {Success: true, Skipped: digest.SkippedNoArticles}}}
	assert.NoError(t, failedUsers(ok))

	bad := &digest.RunResult{Results: []digest.UserResult{{Success: true}, {Success: false, Error: "boom"}}}
	assert.EqualError(t, failedUsers(bad), "1 of 2 digests failed")
}
