package pg

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Storer) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx, `SELECT user_id FROM user_settings ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan user ids: %w", err)
	}
	return ids, nil
}

func (s *Storer) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	var st domain.UserSettings
	err := s.db.QueryRow(ctx, `
		SELECT user_id, COALESCE(push_token, ''), push_notifications, updated_at
		FROM user_settings WHERE user_id = $1`, userID,
	).Scan(&st.UserID, &st.PushToken, &st.PushNotifications, &st.UpdatedAt)
	if isNoRows(err) {
		return nil, apperr.NewNotFound("settings", userID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for %s: %w", userID, err)
	}
	return &st, nil
}

func (s *Storer) UpsertSettings(ctx context.Context, st domain.UserSettings) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_settings (user_id, push_token, push_notifications, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			push_token = EXCLUDED.push_token,
			push_notifications = EXCLUDED.push_notifications,
			updated_at = now()`,
		st.UserID, nullIfEmpty(st.PushToken), st.PushNotifications,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settings for %s: %w", st.UserID, err)
	}
	return nil
}
