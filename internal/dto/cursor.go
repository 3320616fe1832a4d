package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
)

// articleCursor is the opaque continuation token of a newest-first
// article listing: the (created_at, id) of the last item on a page.
type articleCursor struct {
	CreatedAt time.Time `json:"t"`
	ID        uuid.UUID `json:"i"`
}

// EncodeArticleCursor returns the token that continues a listing after a.
func EncodeArticleCursor(a domain.Article) (string, error) {
	if a.ID == uuid.Nil {
		return "", errors.New("cursor article id cannot be nil")
	}

	b, err := json.Marshal(articleCursor{CreatedAt: a.CreatedAt.UTC(), ID: a.ID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeArticleCursor turns a token back into a store position. An empty
// token means the first page and yields nil.
func DecodeArticleCursor(s string) (*storage.Position, error) {
	if s == "" {
		return nil, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}

	var c articleCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cursor: %w", err)
	}
	if c.ID == uuid.Nil {
		return nil, errors.New("invalid cursor: id cannot be nil")
	}

	return &storage.Position{CreatedAt: c.CreatedAt, ID: c.ID}, nil
}
