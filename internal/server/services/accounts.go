package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/server/auth"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/inkly/inkly/internal/server/repositories/repomanager"
)

// AccountService creates accounts on first authenticated contact.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager) *AccountService {
	return &AccountService{db: db, repomanager: m}
}

// EnsureAccount returns the account of p, creating it at the username step
// when it does not exist yet. created reports whether a row was inserted.
// The display name falls back to the token's name claim.
func (s *AccountService) EnsureAccount(ctx context.Context, p auth.Principal, name string) (user *models.User, created bool, err error) {
	if err := requirePrincipal(p); err != nil {
		return nil, false, err
	}

	repo := s.repomanager.Users(s.db)
	email := accountEmail(p)

	u, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, fmt.Errorf("error loading account: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = p.Name
	}
	u, err = repo.Create(ctx, models.NewUser(email, content.SanitizePlainText(name)))
	if errors.Is(err, common.ErrorAlreadyExists) {
		// another request created it first
		u, err = repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, fmt.Errorf("error loading account: %w", err)
		}
		return u, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error creating account: %w", err)
	}

	return u, true, nil
}
