package community

import (
	"context"

	"github.com/inkly/inkly/internal/server/models"
)

// Repository stores one CommunityPreferences row per user.
type Repository interface {
	Get(ctx context.Context, userID string) (*models.CommunityPreferences, error)
	Upsert(ctx context.Context, prefs *models.CommunityPreferences) error
}
