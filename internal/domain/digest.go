package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day key format of a digest.
const DateLayout = "2006-01-02"

type Digest struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Date           string          `json:"date"`
	OverallSummary string          `json:"overall_summary"`
	TopThemes      []string        `json:"top_themes"`
	Articles       []DigestArticle `json:"articles"`
	AIInsights     string          `json:"ai_insights"`
	ArticleCount   int             `json:"article_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type DigestArticle struct {
	ArticleID  string   `json:"article_id"`
	Title      string   `json:"title"`
	ImageURL   *string  `json:"image_url"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	URL        string   `json:"url"`
}

// UserSettings holds per-user notification preferences.
type UserSettings struct {
	UserID            uuid.UUID `json:"user_id"`
	PushToken         string    `json:"push_token,omitempty"`
	PushNotifications bool      `json:"push_notifications"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (s *UserSettings) CanPush() bool {
	return s != nil && s.PushNotifications && s.PushToken != ""
}
