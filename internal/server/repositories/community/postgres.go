package community

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

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.CommunityPreferences, error) {
	query :=
		`SELECT user_id, suggested_accounts, interests, updated_at
		 FROM onboarding_community_preferences
		 WHERE user_id = $1
		 `

	p := &models.CommunityPreferences{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID,
		dbx.ScanTextArray(&p.SuggestedAccounts), dbx.ScanTextArray(&p.Interests), &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, p *models.CommunityPreferences) error {
	query :=
		`INSERT INTO onboarding_community_preferences (user_id, suggested_accounts, interests)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
		        suggested_accounts = EXCLUDED.suggested_accounts,
		        interests = EXCLUDED.interests,
		        updated_at = now()
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.UserID,
		dbx.TextArray(p.SuggestedAccounts), dbx.TextArray(p.Interests)).Scan(&p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
