package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/dbx"
	"github.com/inkly/inkly/internal/server/auth"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/inkly/inkly/internal/server/repositories/repomanager"
	"github.com/inkly/inkly/internal/server/repositories/users"
)

// CommunityPreferencesInput is the community step of onboarding. Empty
// suggested accounts fall back to models.DefaultSuggestedAccounts.
type CommunityPreferencesInput struct {
	SuggestedAccounts []string `json:"suggestedAccounts,omitempty"`
	Interests         []string `json:"interests,omitempty"`
}

func (in CommunityPreferencesInput) toModel(userID string) *models.CommunityPreferences {
	accounts := uniqueTrimmed(in.SuggestedAccounts)
	if len(accounts) == 0 {
		accounts = append([]string(nil), models.DefaultSuggestedAccounts...)
	}
	return &models.CommunityPreferences{
		UserID:            userID,
		SuggestedAccounts: accounts,
		Interests:         uniqueTrimmed(in.Interests),
	}
}

// uniqueTrimmed trims each value, drops empties and duplicates, keeps order.
func uniqueTrimmed(in []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// CompleteOnboardingInput is everything the final onboarding submit carries.
// Notification and community sections are optional.
type CompleteOnboardingInput struct {
	Username string `json:"username"`
	ProfilePatch
	NotificationSettings *NotificationSettingsPatch `json:"notificationSettings,omitempty"`
	CommunityPreferences *CommunityPreferencesInput `json:"communityPreferences,omitempty"`
}

type OnboardingStatus struct {
	User                 *models.User                 `json:"user"`
	NotificationSettings *models.NotificationSettings `json:"notificationSettings"`
}

// UsernameCheck is the result of an availability lookup.
type UsernameCheck struct {
	Username  string           `json:"username"`
	Available bool             `json:"available"`
	Reasons   []content.Reason `json:"reasons"`
}

// OnboardingService drives an account through
// username -> profile -> notifications -> community -> complete.
type OnboardingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gate        *content.Gate
}

func NewOnboardingService(db *sql.DB, m repomanager.RepositoryManager, gate *content.Gate) *OnboardingService {
	return &OnboardingService{db: db, repomanager: m, gate: gate}
}

func usernameTaken() error {
	return &content.ValidationError{Field: "username", Reasons: []content.Reason{content.ReasonUsernameTaken}}
}

// GetStatus returns the account with its notification settings; settings are
// nil when none are stored.
func (s *OnboardingService) GetStatus(ctx context.Context, p auth.Principal) (*OnboardingStatus, error) {
	u, err := loadAccount(ctx, s.repomanager.Users(s.db), p)
	if err != nil {
		return nil, err
	}

	settings, err := s.repomanager.NotificationSettings(s.db).Get(ctx, u.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading notification settings: %w", err)
	}

	return &OnboardingStatus{User: u, NotificationSettings: settings}, nil
}

// AdvanceStep moves the account exactly one step forward. Entering complete
// requires a username.
func (s *OnboardingService) AdvanceStep(ctx context.Context, p auth.Principal, step models.OnboardingStep) (*models.User, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByEmailForUpdate(ctx, accountEmail(p))
		if err != nil {
			return fmt.Errorf("error loading account: %w", err)
		}

		next, ok := u.OnboardingStep.Next()
		if !ok || next != step {
			return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, u.OnboardingStep, step)
		}
		if step == models.StepComplete && u.Username == nil {
			return common.ErrUsernameRequired
		}

		if err := u.SetOnboardingStep(step); err != nil {
			return err
		}
		if err := repo.Update(ctx, u); err != nil {
			return fmt.Errorf("error updating account: %w", err)
		}

		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// CompleteOnboarding validates the whole payload, then writes the account,
// the notification settings and the community preferences in one
// transaction.
func (s *OnboardingService) CompleteOnboarding(ctx context.Context, p auth.Principal, in CompleteOnboardingInput) (*models.User, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, common.ErrUsernameRequired
	}
	if err := s.gate.ValidateUsername(username); err != nil {
		return nil, err
	}

	profile, err := in.ProfilePatch.normalize(s.gate)
	if err != nil {
		return nil, err
	}

	if in.NotificationSettings != nil {
		if err := in.NotificationSettings.validate(); err != nil {
			return nil, err
		}
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByEmailForUpdate(ctx, accountEmail(p))
		if err != nil {
			return fmt.Errorf("error loading account: %w", err)
		}
		if u.OnboardingCompleted {
			return fmt.Errorf("%w: onboarding already complete", common.ErrInvalidTransition)
		}

		if err := ensureUsernameAvailable(ctx, repo, username, u.ID); err != nil {
			return err
		}

		u.Username = &username
		profile.apply(u)
		if err := u.SetOnboardingStep(models.StepComplete); err != nil {
			return err
		}

		if err := repo.Update(ctx, u); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return usernameTaken()
			}
			return fmt.Errorf("error updating account: %w", err)
		}

		if in.NotificationSettings != nil {
			if _, err := upsertSettings(ctx, s.repomanager.NotificationSettings(tx), u.ID, *in.NotificationSettings); err != nil {
				return err
			}
		}

		if in.CommunityPreferences != nil {
			prefs := in.CommunityPreferences.toModel(u.ID)
			if err := s.repomanager.CommunityPreferences(tx).Upsert(ctx, prefs); err != nil {
				return fmt.Errorf("error saving community preferences: %w", err)
			}
		}

		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func ensureUsernameAvailable(ctx context.Context, repo users.Repository, username, selfID string) error {
	owner, err := repo.GetByUsername(ctx, username)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking username: %w", err)
	}
	if owner.ID != selfID {
		return usernameTaken()
	}
	return nil
}

// ResetOnboarding sends the account back to the username step. The stored
// username and profile are kept.
func (s *OnboardingService) ResetOnboarding(ctx context.Context, p auth.Principal) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	u, err := loadAccount(ctx, repo, p)
	if err != nil {
		return nil, err
	}

	reset, err := repo.SetOnboardingStep(ctx, u.ID, models.StepUsername)
	if err != nil {
		return nil, fmt.Errorf("error resetting onboarding: %w", err)
	}

	return reset, nil
}

// UpdateProfile applies a partial profile edit during onboarding.
func (s *OnboardingService) UpdateProfile(ctx context.Context, p auth.Principal, patch ProfilePatch) (*models.User, error) {
	return updateProfile(ctx, s.repomanager.Users(s.db), s.gate, p, patch)
}

// CheckUsername reports whether name passes validation and is free. A name
// already held by the caller counts as available.
func (s *OnboardingService) CheckUsername(ctx context.Context, p auth.Principal, name string) (*UsernameCheck, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	res := &UsernameCheck{Username: name, Reasons: []content.Reason{}}

	var verr *content.ValidationError
	if err := s.gate.ValidateUsername(name); errors.As(err, &verr) {
		res.Reasons = verr.Reasons
		return res, nil
	}

	owner, err := s.repomanager.Users(s.db).GetByUsername(ctx, name)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		res.Available = true
	case err != nil:
		return nil, fmt.Errorf("error checking username: %w", err)
	case strings.EqualFold(owner.Email, accountEmail(p)):
		res.Available = true
	default:
		res.Reasons = append(res.Reasons, content.ReasonUsernameTaken)
	}

	return res, nil
}
