package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sermonforge_backend/internal/auth"
	"sermonforge_backend/internal/config"
	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/pkg/apperrors"
)

func newAuthService(t *testing.T, db *gorm.DB) AuthService {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 24
	config.AppConfig = cfg

	return NewAuthService(repositories.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "pastor@example.com",
		Password: "sufficiently-long",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	userID, err := auth.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "pastor@example.com",
		Password: "sufficiently-long",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password456"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Unknown email gets the same error as a wrong password.
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginSuspendedUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", resp.User.ID).
		Update("status", models.UserStatusSuspended).Error)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrUserSuspended)
}

func TestRefreshRotatesToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The spent token cannot be replayed.
	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestUpdatePasswordRevokesSessions(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, resp.User.ID, &dto.UpdatePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "even-longer-password",
	})
	require.NoError(t, err)

	// Old refresh tokens die with the old password.
	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "even-longer-password"})
	assert.NoError(t, err)
}

func TestUpdatePasswordRequiresCurrent(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, resp.User.ID, &dto.UpdatePasswordRequest{
		CurrentPassword: "not-it",
		NewPassword:     "whatever-else",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
