package domain

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus tracks an article through the processing pipeline.
type ArticleStatus string

const (
	ArticleSubmitted  ArticleStatus = "submitted"
	ArticleExtracting ArticleStatus = "extracting"
	ArticleAnalyzing  ArticleStatus = "analyzing"
	ArticleReady      ArticleStatus = "ready"
	ArticleFailed     ArticleStatus = "failed"
)

type Article struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	URL         string        `json:"url"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Content     string        `json:"content,omitempty"`
	Author      string        `json:"author,omitempty"`
	SiteName    string        `json:"site_name,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	Images      []Image       `json:"images"`
	Comments    []Comment     `json:"comments"`
	Analysis    *Analysis     `json:"analysis,omitempty"`
	Status      ArticleStatus `json:"status"`
	Error       *string       `json:"error_message,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type Comment struct {
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
}

// Extraction is the subset of article fields written by the extraction stage.
type Extraction struct {
	Title       string
	Description string
	Content     string
	Author      string
	SiteName    string
	Images      []Image
	Comments    []Comment
}

// LeadImage returns the first extracted image url, if any.
func (e Extraction) LeadImage() string {
	if len(e.Images) == 0 {
		return ""
	}
	return e.Images[0].URL
}

// Apply merges extracted fields into the article. A submitted title is kept
// when the extractor did not find one.
func (a *Article) Apply(e Extraction) {
	if e.Title != "" {
		a.Title = e.Title
	}
	a.Description = e.Description
	a.Content = e.Content
	a.Author = e.Author
	a.SiteName = e.SiteName
	a.ImageURL = e.LeadImage()
	a.Images = e.Images
	a.Comments = e.Comments
}

// DisplaySummary prefers the analysis summary and falls back to the description.
func (a *Article) DisplaySummary() string {
	if a.Analysis != nil && a.Analysis.Summary != "" {
		return a.Analysis.Summary
	}
	return a.Description
}

func (a *Article) ErrorMessage() string {
	if a.Error == nil {
		return ""
	}
	return *a.Error
}
