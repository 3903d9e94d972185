package inks

import (
	"context"

	"github.com/inkly/inkly/internal/server/models"
)

// Repository persists classified Inks.
type Repository interface {
	Create(ctx context.Context, ink *models.Ink) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Ink, error)
}
