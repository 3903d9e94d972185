package services

import (
	"context"
	"errors"
	"testing"

	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/server/auth"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsService(t *testing.T) (*NotificationSettingsService, *memStore, *models.User) {
	t.Helper()
	db, _ := newMockDB(t)
	store := newMemStore()
	u := store.addUser(adaEmail, "Ada")
	return NewNotificationSettingsService(db, &fakeManager{store: store}), store, u
}

func TestNotificationSettings_GetReturnsDefaultsWhenAbsent(t *testing.T) {
	svc, store, u := newSettingsService(t)

	got, err := svc.Get(context.Background(), principal(adaEmail))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultNotificationSettings(u.ID), got)
	assert.Empty(t, store.settings, "reading must not create a row")
}

func TestNotificationSettings_UpdateMergesOverStored(t *testing.T) {
	svc, store, u := newSettingsService(t)
	store.settings[u.ID] = &models.NotificationSettings{
		UserID:           u.ID,
		PushEnabled:      true,
		NewFollower:      false,
		NewReaction:      true,
		PermissionStatus: models.PermissionGranted,
	}

	denied := models.PermissionDenied
	got, err := svc.Update(context.Background(), principal(adaEmail), NotificationSettingsPatch{
		PushEnabled:      boolPtr(false),
		PermissionStatus: &denied,
	})
	require.NoError(t, err)
	assert.False(t, got.PushEnabled)
	assert.False(t, got.NewFollower, "untouched field keeps stored value")
	assert.True(t, got.NewReaction)
	assert.Equal(t, models.PermissionDenied, store.settings[u.ID].PermissionStatus)
}

func TestNotificationSettings_UpdateStartsFromDefaults(t *testing.T) {
	svc, store, u := newSettingsService(t)

	_, err := svc.Update(context.Background(), principal(adaEmail), NotificationSettingsPatch{TrendingContent: boolPtr(false)})
	require.NoError(t, err)

	want := models.DefaultNotificationSettings(u.ID)
	want.TrendingContent = false
	assert.Equal(t, want, store.settings[u.ID])
}

func TestNotificationSettings_InvalidPermission(t *testing.T) {
	svc, store, _ := newSettingsService(t)

	bad := models.PermissionStatus("prompt")
	_, err := svc.Update(context.Background(), principal(adaEmail), NotificationSettingsPatch{PermissionStatus: &bad})
	var verr *content.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []content.Reason{content.ReasonInvalidPermission}, verr.Reasons)
	assert.Empty(t, store.settings)
}

func TestNotificationSettings_Errors(t *testing.T) {
	svc, store, _ := newSettingsService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, auth.Principal{})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = svc.Update(ctx, auth.Principal{}, NotificationSettingsPatch{})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = svc.Get(ctx, principal("ghost@example.com"))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	store.settingsUpsertErr = errors.New("db error: boom")
	_, err = svc.Update(ctx, principal(adaEmail), NotificationSettingsPatch{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error saving notification settings")
}
