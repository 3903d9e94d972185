package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/dbx"
	"github.com/inkly/inkly/internal/server/auth"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/inkly/inkly/internal/server/repositories/community"
	"github.com/inkly/inkly/internal/server/repositories/inks"
	"github.com/inkly/inkly/internal/server/repositories/notifications"
	"github.com/inkly/inkly/internal/server/repositories/users"
)

// -------- in-memory store behind the repository interfaces --------

type memStore struct {
	users    map[string]*models.User
	settings map[string]*models.NotificationSettings
	prefs    map[string]*models.CommunityPreferences
	inks     []*models.Ink
	nextID   int

	// handles records the concrete handle type each repository was bound to.
	handles []string

	getErr            error
	updateErr         error
	createErr         error
	settingsUpsertErr error
	prefsUpsertErr    error
	inksErr           error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		settings: map[string]*models.NotificationSettings{},
		prefs:    map[string]*models.CommunityPreferences{},
	}
}

func (s *memStore) addUser(email, name string) *models.User {
	s.nextID++
	u := models.NewUser(email, name)
	u.ID = fmt.Sprintf("u-%d", s.nextID)
	s.users[u.ID] = u
	return cloneUser(u)
}

func (s *memStore) user(id string) *models.User {
	return s.users[id]
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Username != nil {
		name := *u.Username
		c.Username = &name
	}
	return &c
}

// -------- manager --------

type fakeManager struct {
	store *memStore
}

func (m *fakeManager) bind(db dbx.DBTX) {
	m.store.handles = append(m.store.handles, fmt.Sprintf("%T", db))
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeManager) Users(db dbx.DBTX) users.Repository {
	m.bind(db)
	return &fakeUsersRepo{s: m.store}
}

func (m *fakeManager) NotificationSettings(db dbx.DBTX) notifications.Repository {
	m.bind(db)
	return &fakeSettingsRepo{s: m.store}
}

func (m *fakeManager) CommunityPreferences(db dbx.DBTX) community.Repository {
	m.bind(db)
	return &fakePrefsRepo{s: m.store}
}

func (m *fakeManager) Inks(db dbx.DBTX) inks.Repository {
	m.bind(db)
	return &fakeInksRepo{s: m.store}
}

// -------- users --------

type fakeUsersRepo struct{ s *memStore }

func (r *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if r.s.createErr != nil {
		return nil, r.s.createErr
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	r.s.nextID++
	u.ID = fmt.Sprintf("u-%d", r.s.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = cloneUser(u)
	return u, nil
}

func (r *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUsersRepo) GetByEmailForUpdate(ctx context.Context, email string) (*models.User, error) {
	return r.GetByEmail(ctx, email)
}

func (r *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username != nil && *u.Username == username })
}

func (r *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	if r.s.updateErr != nil {
		return r.s.updateErr
	}
	if !u.Consistent() {
		return common.ErrInvalidTransition
	}
	if _, ok := r.s.users[u.ID]; !ok {
		return common.ErrorNotFound
	}
	u.UpdatedAt = time.Now()
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, f users.ProfileFields) (*models.User, error) {
	if r.s.updateErr != nil {
		return nil, r.s.updateErr
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for dst, src := range map[*string]*string{&u.Name: f.Name, &u.Bio: f.Bio, &u.Location: f.Location, &u.Avatar: f.Avatar} {
		if src != nil {
			*dst = *src
		}
	}
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (r *fakeUsersRepo) SetOnboardingStep(ctx context.Context, id string, step models.OnboardingStep) (*models.User, error) {
	if r.s.updateErr != nil {
		return nil, r.s.updateErr
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if err := u.SetOnboardingStep(step); err != nil {
		return nil, err
	}
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

// -------- notification settings --------

type fakeSettingsRepo struct{ s *memStore }

func (r *fakeSettingsRepo) Get(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	if v, ok := r.s.settings[userID]; ok {
		c := *v
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, v *models.NotificationSettings) error {
	if r.s.settingsUpsertErr != nil {
		return r.s.settingsUpsertErr
	}
	c := *v
	r.s.settings[v.UserID] = &c
	return nil
}

// -------- community preferences --------

type fakePrefsRepo struct{ s *memStore }

func (r *fakePrefsRepo) Get(ctx context.Context, userID string) (*models.CommunityPreferences, error) {
	if v, ok := r.s.prefs[userID]; ok {
		c := *v
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakePrefsRepo) Upsert(ctx context.Context, v *models.CommunityPreferences) error {
	if r.s.prefsUpsertErr != nil {
		return r.s.prefsUpsertErr
	}
	c := *v
	r.s.prefs[v.UserID] = &c
	return nil
}

// -------- inks --------

type fakeInksRepo struct{ s *memStore }

func (r *fakeInksRepo) Create(ctx context.Context, ink *models.Ink) error {
	if r.s.inksErr != nil {
		return r.s.inksErr
	}
	ink.CreatedAt = time.Now().Add(time.Duration(len(r.s.inks)) * time.Second)
	c := *ink
	r.s.inks = append(r.s.inks, &c)
	return nil
}

func (r *fakeInksRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Ink, error) {
	if r.s.inksErr != nil {
		return nil, r.s.inksErr
	}
	out := []*models.Ink{}
	for _, ink := range r.s.inks {
		if ink.UserID == userID {
			c := *ink
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// -------- helpers --------

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func principal(email string) auth.Principal {
	return auth.Principal{Email: email, Name: "Ada Lovelace"}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
