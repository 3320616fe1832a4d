package es

import (
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// ArticleDocument is the searchable projection of a ready article.
type ArticleDocument struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	SiteName    string    `json:"site_name"`
	ImageURL    string    `json:"image_url,omitempty"`
	Summary     string    `json:"summary"`
	KeyPoints   []string  `json:"key_points"`
	Topics      []string  `json:"topics"`
	Sentiment   string    `json:"sentiment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IndexedAt   time.Time `json:"indexed_at"`
}

type IndexBuilder struct {
	now func() time.Time
}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{now: time.Now}
}

func (b *IndexBuilder) mapToESDocument(article domain.Article) ArticleDocument {
	doc := ArticleDocument{
		ID:          article.ID.String(),
		UserID:      article.UserID.String(),
		URL:         article.URL,
		Title:       article.Title,
		Description: article.Description,
		Content:     article.Content,
		Author:      article.Author,
		SiteName:    article.SiteName,
		ImageURL:    article.ImageURL,
		Summary:     article.DisplaySummary(),
		CreatedAt:   article.CreatedAt,
		IndexedAt:   b.now(),
	}
	if article.Analysis != nil {
		doc.KeyPoints = article.Analysis.KeyPoints
		doc.Topics = article.Analysis.Topics
		doc.Sentiment = string(article.Analysis.Sentiment)
	}
	return doc
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				"article_analyzer": types.StandardAnalyzer{
					Stopwords: []string{"_english_"},
				},
			},
		},
	}
}

func (b *IndexBuilder) buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"user_id":     types.NewKeywordProperty(),
			"url":         types.NewKeywordProperty(),
			"title":       b.createTextPropertyWithKeyword("article_analyzer"),
			"description": b.createTextProperty("article_analyzer"),
			"content":     b.createTextProperty("article_analyzer"),
			"author":      b.createTextPropertyWithKeyword(""),
			"site_name":   b.createTextPropertyWithKeyword(""),
			"image_url":   types.NewKeywordProperty(),
			"summary":     b.createTextProperty("article_analyzer"),
			"key_points":  b.createTextProperty("article_analyzer"),
			"topics":      types.NewKeywordProperty(),
			"sentiment":   types.NewKeywordProperty(),
			"created_at":  types.NewDateProperty(),
			"indexed_at":  types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) createTextProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}

func (b *IndexBuilder) createTextPropertyWithKeyword(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
