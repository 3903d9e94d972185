package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/server/auth"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/inkly/inkly/internal/server/repositories/repomanager"
	"github.com/inkly/inkly/internal/server/repositories/users"
)

// ProfilePatch is a partial profile edit. A nil or empty field leaves the
// stored value unchanged; a field cannot be cleared through a patch.
type ProfilePatch struct {
	Name     *string `json:"name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

func isSet(v *string) bool {
	return v != nil && *v != ""
}

// normalize sanitizes the text fields and runs each through the gate with
// the bounds of its kind. The first rejected field wins.
func (p ProfilePatch) normalize(gate *content.Gate) (ProfilePatch, error) {
	out := ProfilePatch{}
	fields := []struct {
		name string
		kind content.Kind
		in   *string
		out  **string
	}{
		{"name", content.KindName, p.Name, &out.Name},
		{"bio", content.KindBio, p.Bio, &out.Bio},
		{"location", content.KindLocation, p.Location, &out.Location},
	}

	for _, f := range fields {
		if !isSet(f.in) {
			continue
		}
		clean := content.SanitizePlainText(*f.in)
		if err := content.Reject(f.name, gate.EvaluateKind(clean, f.kind)); err != nil {
			return ProfilePatch{}, err
		}
		*f.out = &clean
	}

	if isSet(p.Avatar) {
		avatar := strings.TrimSpace(*p.Avatar)
		out.Avatar = &avatar
	}

	return out, nil
}

func (p ProfilePatch) apply(u *models.User) {
	if isSet(p.Name) {
		u.Name = *p.Name
	}
	if isSet(p.Bio) {
		u.Bio = *p.Bio
	}
	if isSet(p.Location) {
		u.Location = *p.Location
	}
	if isSet(p.Avatar) {
		u.Avatar = *p.Avatar
	}
}

// fields is the column-level write for a normalized patch.
func (p ProfilePatch) fields() users.ProfileFields {
	var f users.ProfileFields
	if isSet(p.Name) {
		f.Name = p.Name
	}
	if isSet(p.Bio) {
		f.Bio = p.Bio
	}
	if isSet(p.Location) {
		f.Location = p.Location
	}
	if isSet(p.Avatar) {
		f.Avatar = p.Avatar
	}
	return f
}

func requirePrincipal(p auth.Principal) error {
	if !p.Authenticated() {
		return common.ErrorUnauthorized
	}
	return nil
}

func accountEmail(p auth.Principal) string {
	return strings.TrimSpace(p.Email)
}

func loadAccount(ctx context.Context, repo users.Repository, p auth.Principal) (*models.User, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	u, err := repo.GetByEmail(ctx, accountEmail(p))
	if err != nil {
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return u, nil
}

func updateProfile(ctx context.Context, repo users.Repository, gate *content.Gate, p auth.Principal, patch ProfilePatch) (*models.User, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	clean, err := patch.normalize(gate)
	if err != nil {
		return nil, err
	}

	u, err := loadAccount(ctx, repo, p)
	if err != nil {
		return nil, err
	}

	updated, err := repo.UpdateProfile(ctx, u.ID, clean.fields())
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return updated, nil
}

// ProfileService serves post-onboarding profile reads and edits.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gate        *content.Gate
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, gate *content.Gate) *ProfileService {
	return &ProfileService{db: db, repomanager: m, gate: gate}
}

func (s *ProfileService) Get(ctx context.Context, p auth.Principal) (*models.User, error) {
	return loadAccount(ctx, s.repomanager.Users(s.db), p)
}

// Update applies patch with the same rules as OnboardingService.UpdateProfile.
func (s *ProfileService) Update(ctx context.Context, p auth.Principal, patch ProfilePatch) (*models.User, error) {
	return updateProfile(ctx, s.repomanager.Users(s.db), s.gate, p, patch)
}
