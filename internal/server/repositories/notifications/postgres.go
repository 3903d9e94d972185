package notifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/dbx"
	"github.com/inkly/inkly/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns common.ErrorNotFound when the user has no stored settings.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	query :=
		`SELECT user_id, push_enabled, new_follower, new_reaction, trending_content,
		        followed_user_content, permission_status, updated_at
		 FROM notification_settings
		 WHERE user_id = $1
		 `

	s := &models.NotificationSettings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.UserID, &s.PushEnabled, &s.NewFollower,
		&s.NewReaction, &s.TrendingContent, &s.FollowedUserContent, &s.PermissionStatus, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

// Upsert inserts the row or overwrites every column of the existing one.
func (r *PostgresRepository) Upsert(ctx context.Context, s *models.NotificationSettings) error {
	query :=
		`INSERT INTO notification_settings (user_id, push_enabled, new_follower, new_reaction,
		        trending_content, followed_user_content, permission_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		        push_enabled = EXCLUDED.push_enabled,
		        new_follower = EXCLUDED.new_follower,
		        new_reaction = EXCLUDED.new_reaction,
		        trending_content = EXCLUDED.trending_content,
		        followed_user_content = EXCLUDED.followed_user_content,
		        permission_status = EXCLUDED.permission_status,
		        updated_at = now()
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, s.UserID, s.PushEnabled, s.NewFollower, s.NewReaction,
		s.TrendingContent, s.FollowedUserContent, s.PermissionStatus).Scan(&s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
