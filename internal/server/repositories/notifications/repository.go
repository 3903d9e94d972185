package notifications

import (
	"context"

	"github.com/inkly/inkly/internal/server/models"
)

// Repository stores one NotificationSettings row per user.
type Repository interface {
	Get(ctx context.Context, userID string) (*models.NotificationSettings, error)
	Upsert(ctx context.Context, settings *models.NotificationSettings) error
}
