package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestArticleStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to ArticleStatus
		want     bool
	}{
		{ArticleSubmitted, ArticleExtracting, true},
		{ArticleSubmitted, ArticleAnalyzing, false},
		{ArticleSubmitted, ArticleFailed, true},
		{ArticleExtracting, ArticleExtracting, true},
		{ArticleExtracting, ArticleAnalyzing, true},
		{ArticleExtracting, ArticleReady, false},
		{ArticleAnalyzing, ArticleReady, true},
		{ArticleAnalyzing, ArticleFailed, true},
		{ArticleReady, ArticleFailed, false},
		{ArticleReady, ArticleExtracting, false},
		{ArticleFailed, ArticleExtracting, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestSourcesOf(t *testing.T) {
	assert.ElementsMatch(t, []ArticleStatus{ArticleSubmitted, ArticleExtracting, ArticleAnalyzing}, SourcesOf(ArticleFailed))
	assert.ElementsMatch(t, []ArticleStatus{ArticleAnalyzing}, SourcesOf(ArticleReady))
	assert.ElementsMatch(t, []ArticleStatus{ArticleSubmitted, ArticleExtracting}, SourcesOf(ArticleExtracting))
	assert.Empty(t, SourcesOf(ArticleSubmitted))
}

func TestArticleStatus_IsTerminal(t *testing.T) {
	assert.True(t, ArticleReady.IsTerminal())
	assert.True(t, ArticleFailed.IsTerminal())
	assert.False(t, ArticleAnalyzing.IsTerminal())
	assert.False(t, ArticleStatus("bogus").IsValid())
}

func TestQueueJob_Eligible(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Minute)
	earlier := now.Add(-time.Minute)

	base := NewQueueJob(uuid.New(), JobKindExtract, now)

	t.Run("fresh pending job", func(t *testing.T) {
		j := base
		assert.True(t, j.Eligible(3, now))
	})

	t.Run("attempt ceiling reached", func(t *testing.T) {
		j := base
		j.Attempts = 3
		assert.False(t, j.Eligible(3, now))
	})

	t.Run("not pending", func(t *testing.T) {
		j := base
		j.Status = JobProcessing
		assert.False(t, j.Eligible(3, now))
	})

	t.Run("backoff in the future", func(t *testing.T) {
		j := base
		j.NextEligibleAt = &later
		assert.False(t, j.Eligible(3, now))
	})

	t.Run("backoff elapsed", func(t *testing.T) {
		j := base
		j.NextEligibleAt = &earlier
		assert.True(t, j.Eligible(3, now))
	})
}

func TestArticle_Apply(t *testing.T) {
	a := Article{Title: "Shared title", URL: "https://example.com/a"}

	a.Apply(Extraction{
		Description: "desc",
		Content:     "body",
		Images:      []Image{{URL: "https://example.com/1.png"}, {URL: "https://example.com/2.png"}},
	})

	assert.Equal(t, "Shared title", a.Title)
	assert.Equal(t, "https://example.com/1.png", a.ImageURL)
	assert.Equal(t, "body", a.Content)

	a.Apply(Extraction{Title: "Extracted"})
	assert.Equal(t, "Extracted", a.Title)
	assert.Empty(t, a.ImageURL)
}

func TestArticle_DisplaySummary(t *testing.T) {
	a := Article{Description: "fallback"}
	assert.Equal(t, "fallback", a.DisplaySummary())

	a.Analysis = &Analysis{Summary: "from analysis"}
	assert.Equal(t, "from analysis", a.DisplaySummary())
}
