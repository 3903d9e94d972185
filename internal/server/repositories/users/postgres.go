package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/dbx"
	"github.com/inkly/inkly/internal/server/models"
)

const (
	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"
)

const returnColumns = `id, email, name, username, bio, location, avatar,
		 onboarding_completed, onboarding_step, created_at, updated_at`

const selectColumns = `SELECT ` + returnColumns + `
		 FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if !user.Consistent() {
		return nil, fmt.Errorf("%w: completed flag and step disagree", common.ErrInvalidTransition)
	}

	query :=
		`INSERT INTO users (email, name, onboarding_completed, onboarding_step)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Name, user.OnboardingCompleted, user.OnboardingStep).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err, emailConstraint) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectColumns+` WHERE email = $1`, email)
}

// GetByEmailForUpdate locks the row until the surrounding transaction ends.
func (r *PostgresRepository) GetByEmailForUpdate(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectColumns+` WHERE email = $1 FOR UPDATE`, email)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectColumns+` WHERE username = $1`, username)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.Name, &user.Username, &user.Bio, &user.Location, &user.Avatar,
		&user.OnboardingCompleted, &user.OnboardingStep, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Update writes every mutable column of user and refreshes UpdatedAt.
func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	if !user.Consistent() {
		return fmt.Errorf("%w: completed flag and step disagree", common.ErrInvalidTransition)
	}

	query :=
		`UPDATE users
		 SET name = $2, username = $3, bio = $4, location = $5, avatar = $6,
		     onboarding_completed = $7, onboarding_step = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Username, user.Bio, user.Location, user.Avatar,
		user.OnboardingCompleted, user.OnboardingStep).Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		if dbx.IsUniqueViolation(err, usernameConstraint) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// UpdateProfile writes only the profile columns named in fields. Username and
// onboarding state are never touched, so a concurrent onboarding write is
// not overwritten.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, fields ProfileFields) (*models.User, error) {
	query :=
		`UPDATE users
		 SET name = COALESCE($2, name), bio = COALESCE($3, bio),
		     location = COALESCE($4, location), avatar = COALESCE($5, avatar),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + returnColumns

	return r.getOne(ctx, query, id, fields.Name, fields.Bio, fields.Location, fields.Avatar)
}

// SetOnboardingStep writes the step and the matching completed flag in one
// statement and returns the stored row.
func (r *PostgresRepository) SetOnboardingStep(ctx context.Context, id string, step models.OnboardingStep) (*models.User, error) {
	if !step.Valid() {
		return nil, fmt.Errorf("%w: unknown step %q", common.ErrInvalidTransition, step)
	}

	query :=
		`UPDATE users
		 SET onboarding_step = $2, onboarding_completed = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + returnColumns

	return r.getOne(ctx, query, id, step, step == models.StepComplete)
}
