package pg

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id",
	"user_id",
	"url",
	"COALESCE(title, '')",
	"COALESCE(description, '')",
	"COALESCE(content, '')",
	"COALESCE(author, '')",
	"COALESCE(site_name, '')",
	"COALESCE(image_url, '')",
	"images",
	"comments",
	"analysis",
	"status",
	"error_message",
	"created_at",
	"updated_at",
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var (
		a                                  domain.Article
		imagesJSON, commentsJSON, analysis []byte
	)
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.URL,
		&a.Title,
		&a.Description,
		&a.Content,
		&a.Author,
		&a.SiteName,
		&a.ImageURL,
		&imagesJSON,
		&commentsJSON,
		&analysis,
		&a.Status,
		&a.Error,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(imagesJSON, &a.Images); err != nil {
		return nil, fmt.Errorf("failed to unmarshal images: %w", err)
	}
	if err := json.Unmarshal(commentsJSON, &a.Comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
	}
	if len(analysis) > 0 {
		a.Analysis = &domain.Analysis{}
		if err := json.Unmarshal(analysis, a.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
	}
	return &a, nil
}

func (s *Storer) GetArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	query, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build article query: %w", err)
	}

	a, err := scanArticle(s.db.QueryRow(ctx, query, args...))
	if isNoRows(err) {
		return nil, apperr.NewNotFound("article", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	return a, nil
}

func (s *Storer) ListArticles(ctx context.Context, f storage.ArticleFilter) ([]domain.Article, error) {
	b := psql.Select(articleColumns...).
		From("articles").
		OrderBy("created_at DESC", "id DESC")

	if f.UserID != uuid.Nil {
		b = b.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.CreatedFrom != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.CreatedFrom})
	}
	if f.CreatedTo != nil {
		b = b.Where(sq.LtOrEq{"created_at": *f.CreatedTo})
	}
	if f.Before != nil {
		b = b.Where(sq.Expr("(created_at, id) < (?, ?)", f.Before.CreatedAt, f.Before.ID))
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build article list query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return out, nil
}

func (s *Storer) MarkExtracting(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, domain.ArticleExtracting, nil)
}

func (s *Storer) SaveExtraction(ctx context.Context, id uuid.UUID, e domain.Extraction) error {
	images, err := marshalList(e.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}
	comments, err := marshalList(e.Comments)
	if err != nil {
		return fmt.Errorf("failed to marshal comments: %w", err)
	}

	return s.transition(ctx, id, domain.ArticleAnalyzing, map[string]any{
		"title":       sq.Expr("COALESCE(NULLIF(?, ''), title)", e.Title),
		"description": e.Description,
		"content":     e.Content,
		"author":      e.Author,
		"site_name":   e.SiteName,
		"image_url":   e.LeadImage(),
		"images":      images,
		"comments":    comments,
	})
}

func (s *Storer) SaveAnalysis(ctx context.Context, id uuid.UUID, a domain.Analysis) error {
	analysis, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return s.transition(ctx, id, domain.ArticleReady, map[string]any{
		"analysis": analysis,
	})
}

func (s *Storer) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	return s.transition(ctx, id, domain.ArticleFailed, map[string]any{
		"error_message": message,
	})
}

// transition moves an article to next only from a status the state machine
// allows, writing the extra columns in the same statement.
func (s *Storer) transition(ctx context.Context, id uuid.UUID, next domain.ArticleStatus, set map[string]any) error {
	sources := make([]string, 0, 3)
	for _, st := range domain.SourcesOf(next) {
		sources = append(sources, string(st))
	}

	b := psql.Update("articles").
		Set("status", string(next)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "status": sources})
	if len(set) > 0 {
		b = b.SetMap(set)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build article update: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update article %s to %s: %w", id, next, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current domain.ArticleStatus
	err = s.db.QueryRow(ctx, `SELECT status FROM articles WHERE id = $1`, id).Scan(&current)
	if isNoRows(err) {
		return apperr.NewNotFound("article", id.String())
	}
	if err != nil {
		return fmt.Errorf("failed to read article %s status: %w", id, err)
	}
	return fmt.Errorf("article %s %s -> %s: %w", id, current, next, storage.ErrStaleTransition)
}

func insertArticle(ctx context.Context, tx pgx.Tx, a domain.Article) error {
	images, err := marshalList(a.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}
	comments, err := marshalList(a.Comments)
	if err != nil {
		return fmt.Errorf("failed to marshal comments: %w", err)
	}

	query, args, err := psql.Insert("articles").
		Columns("id", "user_id", "url", "title", "images", "comments", "status", "created_at", "updated_at").
		Values(a.ID, a.UserID, a.URL, nullIfEmpty(a.Title), images, comments, string(a.Status), a.CreatedAt, a.CreatedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build article insert: %w", err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewConflict("article %s already exists", a.ID)
	}
	return nil
}

// marshalList encodes nil slices as an empty JSON array.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
