package es

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToESDocument(t *testing.T) {
	indexedAt := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	b := &IndexBuilder{now: func() time.Time { return indexedAt }}

	article := domain.Article{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		URL:         "https://example.com/a",
		Title:       "Title",
		Description: "desc",
		ImageURL:    "https://img/1.png",
		Status:      domain.ArticleReady,
		Analysis: &domain.Analysis{
			Summary:   "summary",
			KeyPoints: []string{"k"},
			Topics:    []string{"go"},
			Sentiment: domain.SentimentPositive,
		},
	}

	doc := b.mapToESDocument(article)
	assert.Equal(t, article.ID.String(), doc.ID)
	assert.Equal(t, article.UserID.String(), doc.UserID)
	assert.Equal(t, "summary", doc.Summary)
	assert.Equal(t, []string{"go"}, doc.Topics)
	assert.Equal(t, "positive", doc.Sentiment)
	assert.Equal(t, indexedAt, doc.IndexedAt)

	article.Analysis = nil
	doc = b.mapToESDocument(article)
	assert.Equal(t, "desc", doc.Summary)
	assert.Empty(t, doc.Sentiment)
}

func TestBuildMapping(t *testing.T) {
	m := NewIndexBuilder().buildMapping()
	for _, field := range []string{"user_id", "title", "summary", "topics", "created_at"} {
		assert.Contains(t, m.Properties, field)
	}
}

func TestMapHits(t *testing.T) {
	id := uuid.New()
	src, err := json.Marshal(ArticleDocument{ID: id.String(), Title: "T", Summary: "S", Topics: []string{"x"}})
	require.NoError(t, err)
	score := types.Float64(1.5)

	hits, err := mapHits([]types.Hit{{Source_: src, Score_: &score}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].ID)
	assert.Equal(t, 1.5, hits[0].Score)

	bad, err := json.Marshal(ArticleDocument{ID: "nope"})
	require.NoError(t, err)
	_, err = mapHits([]types.Hit{{Source_: bad}})
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SEARCH_ENABLED", "true")
	t.Setenv("ES_ADDRESSES", "")
	_, err := LoadEnv()
	assert.Error(t, err)

	t.Setenv("ES_ADDRESSES", "http://es1:9200, http://es2:9200")
	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Addresses)
	assert.Equal(t, "articles", cfg.IndexName)
	assert.Equal(t, 3, cfg.MaxRetries)

	t.Setenv("ES_MAX_RETRIES", "many")
	_, err = LoadEnv()
	assert.Error(t, err)
}
