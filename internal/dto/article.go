package dto

import (
	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/google/uuid"
)

type SubmitArticleRequest struct {
	ArticleID *uuid.UUID `json:"article_id,omitempty" swaggertype:"string" format:"uuid"`
	UserID    uuid.UUID  `json:"user_id" swaggertype:"string" format:"uuid"`
	URL       string     `json:"url"`
	Title     string     `json:"title,omitempty"`
}

type SubmitArticleResponse struct {
	Article domain.Article  `json:"article"`
	Job     domain.QueueJob `json:"job"`
}

type SearchResponse[T any] struct {
	Hits []T `json:"hits"`
}

type UpdateSettingsRequest struct {
	PushToken         string `json:"push_token,omitempty"`
	PushNotifications bool   `json:"push_notifications"`
}

// ErrorResponse documents the body written by the global error handler.
type ErrorResponse = apperr.ErrorResponse

type MessageResponse struct {
	Message string `json:"message"`
}
