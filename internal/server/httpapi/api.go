// Package httpapi exposes the Inkly services as a JSON API over gin.
package httpapi

import (
	"context"

	"github.com/inkly/inkly/internal/server/auth"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/inkly/inkly/internal/server/services"
)

type AccountAPI interface {
	EnsureAccount(ctx context.Context, p auth.Principal, name string) (*models.User, bool, error)
}

type OnboardingAPI interface {
	GetStatus(ctx context.Context, p auth.Principal) (*services.OnboardingStatus, error)
	AdvanceStep(ctx context.Context, p auth.Principal, step models.OnboardingStep) (*models.User, error)
	CompleteOnboarding(ctx context.Context, p auth.Principal, in services.CompleteOnboardingInput) (*models.User, error)
	ResetOnboarding(ctx context.Context, p auth.Principal) (*models.User, error)
	CheckUsername(ctx context.Context, p auth.Principal, name string) (*services.UsernameCheck, error)
}

type ProfileAPI interface {
	Get(ctx context.Context, p auth.Principal) (*models.User, error)
	Update(ctx context.Context, p auth.Principal, patch services.ProfilePatch) (*models.User, error)
}

type NotificationsAPI interface {
	Get(ctx context.Context, p auth.Principal) (*models.NotificationSettings, error)
	Update(ctx context.Context, p auth.Principal, patch services.NotificationSettingsPatch) (*models.NotificationSettings, error)
}

type InksAPI interface {
	Create(ctx context.Context, p auth.Principal, body string, format services.BodyFormat) (*models.Ink, error)
	ListByAuthor(ctx context.Context, p auth.Principal, limit int) ([]*models.Ink, error)
	Preview(body string, format services.BodyFormat) (*services.Analysis, error)
}

type AvatarAPI interface {
	UploadURL(ctx context.Context, p auth.Principal) (*services.AvatarUpload, error)
	ViewURL(ctx context.Context, key string) (string, error)
}

// Services bundles everything the router dispatches to. Health may be nil.
type Services struct {
	Accounts      AccountAPI
	Onboarding    OnboardingAPI
	Profile       ProfileAPI
	Notifications NotificationsAPI
	Inks          InksAPI
	Avatars       AvatarAPI
	Health        func(ctx context.Context) error
}
