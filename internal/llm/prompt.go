package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
)

const (
	DefaultMaxContentChars = 15000
	TruncationMarker       = "...[truncated]"
	maxPromptComments      = 10
)

// Truncate cuts s to at most maxChars runes and appends the marker when it cuts.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + " " + TruncationMarker
}

// AnalysisPrompt asks for the structured analysis of one article.
func AnalysisPrompt(title, content string, comments []domain.Comment, maxChars int) (string, error) {
	var b strings.Builder
	b.WriteString("Analyze this article and provide a structured analysis.\n\n")
	fmt.Fprintf(&b, "Title: %s\n\n", title)
	fmt.Fprintf(&b, "Content:\n%s\n\n", Truncate(content, maxChars))

	if len(comments) > 0 {
		if len(comments) > maxPromptComments {
			comments = comments[:maxPromptComments]
		}
		encoded, err := json.Marshal(comments)
		if err != nil {
			return "", fmt.Errorf("encode comments: %w", err)
		}
		fmt.Fprintf(&b, "Discussion/Comments:\n%s\n\n", encoded)
	}

	b.WriteString(`Provide your analysis in the following JSON format:
{
  "summary": "A concise 2-3 sentence summary of the main points",
  "key_points": ["Key point 1", "Key point 2", "Key point 3", "Key point 4", "Key point 5"],
  "topics": ["topic1", "topic2", "topic3"],
  "sentiment": "positive|negative|neutral|mixed",
  "reading_time_minutes": <estimated reading time as an integer>,
  "comments_summary": "Brief summary of the discussion if comments exist, or null"
}

Return ONLY the JSON, no other text.`)
	return b.String(), nil
}

const ImagePrompt = `Describe this image briefly and explain how it relates to the article. Return JSON:
{
  "description": "Brief description of what's in the image",
  "objects": ["object1", "object2"],
  "relevance": "How this image relates to the article content"
}
Return ONLY JSON.`

// DigestEntry is the compact per-article projection sent to the digest prompt.
type DigestEntry struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Topics    []string `json:"topics"`
	ImageURL  *string  `json:"image_url"`
}

func DigestPrompt(entries []DigestEntry) (string, error) {
	encoded, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode digest entries: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are creating a daily reading digest for a user. Analyze these %d articles they saved and create an intelligent summary.\n\n", len(entries))
	fmt.Fprintf(&b, "Articles saved today:\n%s\n\n", encoded)
	b.WriteString(`Create a digest in the following JSON format:
{
  "overall_summary": "A 2-3 paragraph narrative summary that weaves together the main themes and insights from all articles.",
  "top_themes": ["Theme 1", "Theme 2", "Theme 3", "Theme 4", "Theme 5"],
  "articles": [
    {
      "article_id": "uuid",
      "title": "Article title",
      "image_url": "url or null",
      "summary": "1-2 sentence summary specific to this article",
      "highlights": ["Key highlight 1", "Key highlight 2"],
      "url": "original url"
    }
  ],
  "ai_insights": "An interesting insight, connection, or pattern noticed across the articles."
}

Return at most 5 themes. Return ONLY valid JSON, no other text.`)
	return b.String(), nil
}

// DigestResult is the decoded digest reply.
type DigestResult struct {
	OverallSummary string                 `json:"overall_summary"`
	TopThemes      []string               `json:"top_themes"`
	Articles       []domain.DigestArticle `json:"articles"`
	AIInsights     string                 `json:"ai_insights"`
}

// ImageResult is the decoded image reply.
type ImageResult struct {
	Description string   `json:"description"`
	Objects     []string `json:"objects"`
	Relevance   string   `json:"relevance"`
}
