package domain

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// Analysis is the structured LLM output stored on a ready article.
type Analysis struct {
	Summary            string          `json:"summary"`
	KeyPoints          []string        `json:"key_points"`
	Topics             []string        `json:"topics"`
	Sentiment          Sentiment       `json:"sentiment"`
	ReadingTimeMinutes int             `json:"reading_time_minutes"`
	CommentsSummary    *string         `json:"comments_summary"`
	ImageAnalyses      []ImageAnalysis `json:"image_analyses,omitempty"`
}

type ImageAnalysis struct {
	ImageURL    string   `json:"image_url"`
	Description string   `json:"description"`
	Objects     []string `json:"objects,omitempty"`
	Relevance   string   `json:"relevance,omitempty"`
}
