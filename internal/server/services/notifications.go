package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/server/auth"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/inkly/inkly/internal/server/repositories/notifications"
	"github.com/inkly/inkly/internal/server/repositories/repomanager"
)

// NotificationSettingsPatch lists every recognized settings field. A nil
// field keeps the stored value, or the default when nothing is stored yet.
type NotificationSettingsPatch struct {
	PushEnabled         *bool                    `json:"pushEnabled,omitempty"`
	NewFollower         *bool                    `json:"newFollower,omitempty"`
	NewReaction         *bool                    `json:"newReaction,omitempty"`
	TrendingContent     *bool                    `json:"trendingContent,omitempty"`
	FollowedUserContent *bool                    `json:"followedUserContent,omitempty"`
	PermissionStatus    *models.PermissionStatus `json:"permissionStatus,omitempty"`
}

func (p NotificationSettingsPatch) validate() error {
	if p.PermissionStatus != nil && !p.PermissionStatus.Valid() {
		return &content.ValidationError{
			Field:   "permissionStatus",
			Reasons: []content.Reason{content.ReasonInvalidPermission},
		}
	}
	return nil
}

func (p NotificationSettingsPatch) apply(s *models.NotificationSettings) {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.PushEnabled, p.PushEnabled)
	set(&s.NewFollower, p.NewFollower)
	set(&s.NewReaction, p.NewReaction)
	set(&s.TrendingContent, p.TrendingContent)
	set(&s.FollowedUserContent, p.FollowedUserContent)
	if p.PermissionStatus != nil {
		s.PermissionStatus = *p.PermissionStatus
	}
}

func settingsOrDefault(ctx context.Context, repo notifications.Repository, userID string) (*models.NotificationSettings, error) {
	s, err := repo.Get(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return models.DefaultNotificationSettings(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading notification settings: %w", err)
	}
	return s, nil
}

func upsertSettings(ctx context.Context, repo notifications.Repository, userID string, patch NotificationSettingsPatch) (*models.NotificationSettings, error) {
	s, err := settingsOrDefault(ctx, repo, userID)
	if err != nil {
		return nil, err
	}
	patch.apply(s)
	if err := repo.Upsert(ctx, s); err != nil {
		return nil, fmt.Errorf("error saving notification settings: %w", err)
	}
	return s, nil
}

type NotificationSettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNotificationSettingsService(db *sql.DB, m repomanager.RepositoryManager) *NotificationSettingsService {
	return &NotificationSettingsService{db: db, repomanager: m}
}

// Get returns the stored settings, or the defaults when the user has none.
func (s *NotificationSettingsService) Get(ctx context.Context, p auth.Principal) (*models.NotificationSettings, error) {
	u, err := loadAccount(ctx, s.repomanager.Users(s.db), p)
	if err != nil {
		return nil, err
	}
	return settingsOrDefault(ctx, s.repomanager.NotificationSettings(s.db), u.ID)
}

func (s *NotificationSettingsService) Update(ctx context.Context, p auth.Principal, patch NotificationSettingsPatch) (*models.NotificationSettings, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := patch.validate(); err != nil {
		return nil, err
	}
	u, err := loadAccount(ctx, s.repomanager.Users(s.db), p)
	if err != nil {
		return nil, err
	}
	return upsertSettings(ctx, s.repomanager.NotificationSettings(s.db), u.ID, patch)
}
