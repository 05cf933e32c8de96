package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/pkg/apperrors"
)

func newSettingsService(t *testing.T, db *gorm.DB) SettingsService {
	t.Helper()
	store := newTestStorage(t)
	return NewSettingsService(repositories.NewMetadataRepository(db), store)
}

func TestSettingsDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettingsService(t, db)
	user := createTestUser(t, db, "s@example.com")

	settings, err := svc.Get(user.ID)
	require.NoError(t, err)

	assert.Equal(t, "#1F2937", settings.PrimaryColor)
	assert.Equal(t, "#6B7280", settings.SecondaryColor)
	assert.Equal(t, "serif", settings.FontPreference)
	assert.True(t, settings.NotifySermonReady)
	assert.Equal(t, 0, settings.OnboardingStep)
	assert.False(t, settings.OnboardingCompleted)
}

func TestUpdateProfilePartial(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettingsService(t, db)
	user := createTestUser(t, db, "s@example.com")
	ctx := context.Background()

	church := "Hillside Chapel"
	settings, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{ChurchName: &church})
	require.NoError(t, err)
	assert.Equal(t, "Hillside Chapel", settings.ChurchName)

	// Omitted fields stay put on subsequent updates.
	name := "Pastor Kim"
	settings, err = svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Pastor Kim", settings.DisplayName)
	assert.Equal(t, "Hillside Chapel", settings.ChurchName)
}

func TestUpdateBranding(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettingsService(t, db)
	user := createTestUser(t, db, "s@example.com")

	color := "#3B82F6"
	font := "sans-serif"
	settings, err := svc.UpdateBranding(context.Background(), user.ID, &dto.UpdateBrandingRequest{
		PrimaryColor:   &color,
		FontPreference: &font,
	})
	require.NoError(t, err)

	assert.Equal(t, "#3B82F6", settings.PrimaryColor)
	assert.Equal(t, "#6B7280", settings.SecondaryColor)
	assert.Equal(t, "sans-serif", settings.FontPreference)
}

func TestOnboardingStepsOnlyMoveForward(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettingsService(t, db)
	user := createTestUser(t, db, "s@example.com")
	ctx := context.Background()

	step := 2
	settings, err := svc.UpdateOnboarding(ctx, user.ID, &dto.UpdateOnboardingRequest{Step: &step})
	require.NoError(t, err)
	assert.Equal(t, 2, settings.OnboardingStep)

	stale := 1
	settings, err = svc.UpdateOnboarding(ctx, user.ID, &dto.UpdateOnboardingRequest{Step: &stale})
	require.NoError(t, err)
	assert.Equal(t, 2, settings.OnboardingStep)
}

func TestOnboardingCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettingsService(t, db)
	user := createTestUser(t, db, "s@example.com")

	done := true
	settings, err := svc.UpdateOnboarding(context.Background(), user.ID, &dto.UpdateOnboardingRequest{Completed: &done})
	require.NoError(t, err)

	assert.True(t, settings.OnboardingCompleted)
	assert.Equal(t, models.OnboardingStepCount, settings.OnboardingStep)
	assert.NotNil(t, settings.OnboardingDoneAt)
}

func TestUploadLogoRejectsBadType(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettingsService(t, db)
	user := createTestUser(t, db, "s@example.com")

	_, err := svc.UploadLogo(context.Background(), user.ID, strings.NewReader("gif89a"), 6, "image/gif")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
}

func TestUploadLogoStoresURL(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettingsService(t, db)
	user := createTestUser(t, db, "s@example.com")

	payload := "\x89PNG\r\n\x1a\nfake"
	url, err := svc.UploadLogo(context.Background(), user.ID, strings.NewReader(payload), int64(len(payload)), "image/png")
	require.NoError(t, err)
	assert.Contains(t, url, "branding/"+user.ID+"/logo.png")

	settings, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, url, settings.LogoURL)
}
