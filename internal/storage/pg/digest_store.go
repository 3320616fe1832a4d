package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const digestColumns = `id, user_id, date::text, overall_summary, top_themes, articles, ai_insights, article_count, created_at, updated_at`

func scanDigest(row pgx.Row) (*domain.Digest, error) {
	var (
		d                    domain.Digest
		themes, articlesJSON []byte
	)
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Date,
		&d.OverallSummary,
		&themes,
		&articlesJSON,
		&d.AIInsights,
		&d.ArticleCount,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(themes, &d.TopThemes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal top themes: %w", err)
	}
	if err := json.Unmarshal(articlesJSON, &d.Articles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal digest articles: %w", err)
	}
	return &d, nil
}

// UpsertDigest writes the digest for (user, date), replacing the content of
// an existing row while keeping its id and created_at.
func (s *Storer) UpsertDigest(ctx context.Context, d domain.Digest) (*domain.Digest, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	themes, err := marshalList(d.TopThemes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal top themes: %w", err)
	}
	articles, err := marshalList(d.Articles)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal digest articles: %w", err)
	}

	out, err := scanDigest(s.db.QueryRow(ctx, `
		INSERT INTO digests (id, user_id, date, overall_summary, top_themes, articles, ai_insights, article_count)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, date) DO UPDATE SET
			overall_summary = EXCLUDED.overall_summary,
			top_themes = EXCLUDED.top_themes,
			articles = EXCLUDED.articles,
			ai_insights = EXCLUDED.ai_insights,
			article_count = EXCLUDED.article_count,
			updated_at = now()
		RETURNING `+digestColumns,
		d.ID, d.UserID, d.Date, d.OverallSummary, themes, articles, d.AIInsights, d.ArticleCount,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert digest for %s on %s: %w", d.UserID, d.Date, err)
	}
	return out, nil
}

func (s *Storer) GetDigest(ctx context.Context, userID uuid.UUID, date string) (*domain.Digest, error) {
	d, err := scanDigest(s.db.QueryRow(ctx,
		`SELECT `+digestColumns+` FROM digests WHERE user_id = $1 AND date = $2::date`, userID, date))
	if isNoRows(err) {
		return nil, apperr.NewNotFound("digest", userID.String()+"/"+date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get digest: %w", err)
	}
	return d, nil
}
