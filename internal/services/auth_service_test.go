package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/config"
	"github.com/rojgarsetu/backend/internal/models"
)

func newAuthService(store *fakeUserStore) *AuthService {
	return NewAuthService(store, config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}, zap.NewNop())
}

func addLoginUser(t *testing.T, store *fakeUserStore, password, status string) models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return store.add(models.User{
		Email:      "login@example.com",
		Password:   hash,
		Role:       models.RoleJobSeeker,
		Status:     status,
		FirstLogin: true,
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	addLoginUser(t, store, "secret-pass", models.StatusActive)
	svc := newAuthService(store)

	token, user, err := svc.Login(ctx, "login@example.com", "secret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Empty(t, user.Password)

	_, _, err = svc.Login(ctx, "login@example.com", "wrong-pass")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret-pass")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginInactiveAccount(t *testing.T) {
	store := newFakeUserStore()
	addLoginUser(t, store, "secret-pass", models.StatusInactive)
	svc := newAuthService(store)

	_, _, err := svc.Login(context.Background(), "login@example.com", "secret-pass")
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	user := addLoginUser(t, store, "temp-pass-1", models.StatusActive)
	svc := newAuthService(store)

	err := svc.ChangePassword(ctx, user.ID, "wrong", "new-password")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	err = svc.ChangePassword(ctx, user.ID, "temp-pass-1", "short")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "temp-pass-1", "new-password"))

	stored, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, VerifyPassword("new-password", stored.Password))
	require.False(t, stored.FirstLogin, "first login flag clears after a password change")
}
