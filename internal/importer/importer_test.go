package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/queue"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/in_mem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReader_Read(t *testing.T) {
	csvData := `URL, Title
https://go.dev/blog/loopvar, Loop variables
https://example.com/b,`

	records, err := NewCSVReader(strings.NewReader(csvData)).Read()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, map[string]string{"url": "https://go.dev/blog/loopvar", "title": "Loop variables"}, records[0])
	assert.Equal(t, map[string]string{"url": "https://example.com/b", "title": ""}, records[1])
}

func TestCSVReader_Errors(t *testing.T) {
	_, err := NewCSVReader(strings.NewReader("")).Read()
	assert.EqualError(t, err, "csv is empty")

	_, err = NewCSVReader(strings.NewReader("url,title\n\"https://a.com,x\n")).Read()
	assert.ErrorContains(t, err, "read csv row")
}

func TestCSVReader_ShortRowsAndBOM(t *testing.T) {
	records, err := NewCSVReader(strings.NewReader("\ufeffURL,Title,User_ID\nhttps://a.com\n")).Read()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, map[string]string{"url": "https://a.com", "title": "", "user_id": ""}, records[0])
}

func TestImporter_Run(t *testing.T) {
	store := in_mem.NewInMemStorer()
	userID, otherUser := uuid.New(), uuid.New()
	dupID := uuid.New()

	records := []map[string]string{
		{"url": "https://example.com/1", "title": "One"},
		{"url": "ftp://example.com/2"},
		{"url": "https://example.com/3", "user_id": otherUser.String()},
		{"url": "https://example.com/4", "article_id": dupID.String()},
		{"url": "https://example.com/5", "article_id": dupID.String()},
		{"url": "https://example.com/6", "user_id": "not-a-uuid"},
	}

	res, err := New(queue.NewSubmitter(store), WithWorkers(1)).Run(context.Background(), userID, records)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Submitted)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 2, res.Invalid)
	assert.Zero(t, res.Failed)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, 5, res.Errors[1].Row)
	assert.Equal(t, 6, res.Errors[2].Row)

	mine, err := store.ListArticles(context.Background(), storage.ArticleFilter{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := store.ListArticles(context.Background(), storage.ArticleFilter{UserID: otherUser})
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, domain.ArticleSubmitted, theirs[0].Status)
}

func TestImporter_RequiresURLColumn(t *testing.T) {
	_, err := New(queue.NewSubmitter(in_mem.NewInMemStorer())).
		Run(context.Background(), uuid.New(), []map[string]string{{"link": "https://a.com"}})
	assert.ErrorContains(t, err, "url column")
}

type failingEnqueuer struct{}

func (failingEnqueuer) Enqueue(context.Context, queue.Submission) (*domain.Article, *domain.QueueJob, error) {
	return nil, nil, errors.New("db down")
}

func TestImporter_CountsStoreFailures(t *testing.T) {
	records := []map[string]string{{"url": "https://a.com"}, {"url": "https://b.com"}}

	res, err := New(failingEnqueuer{}, WithWorkers(2)).Run(context.Background(), uuid.New(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, "db down", res.Errors[0].Error)
}

func TestImporter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(failingEnqueuer{}).Run(ctx, uuid.New(), []map[string]string{{"url": "https://a.com"}})
	assert.ErrorIs(t, err, context.Canceled)
}
