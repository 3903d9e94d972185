package users

import (
	"context"

	"github.com/inkly/inkly/internal/server/models"
)

// ProfileFields is a partial profile write; nil fields keep the stored value.
type ProfileFields struct {
	Name     *string
	Bio      *string
	Location *string
	Avatar   *string
}

// Repository is the user-record store. Lookups return common.ErrorNotFound
// when no row matches; writes that collide on email or username return
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailForUpdate(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id string, fields ProfileFields) (*models.User, error)
	SetOnboardingStep(ctx context.Context, id string, step models.OnboardingStep) (*models.User, error)
}
