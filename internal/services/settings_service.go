package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/internal/storage"
	"sermonforge_backend/pkg/apperrors"
)

type SettingsService interface {
	Get(userID string) (*dto.SettingsResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.SettingsResponse, error)
	UpdateBranding(ctx context.Context, userID string, req *dto.UpdateBrandingRequest) (*dto.SettingsResponse, error)
	UpdateNotifications(ctx context.Context, userID string, req *dto.UpdateNotificationsRequest) (*dto.SettingsResponse, error)
	UpdateOnboarding(ctx context.Context, userID string, req *dto.UpdateOnboardingRequest) (*dto.SettingsResponse, error)
	UpdateAccount(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*dto.SettingsResponse, error)
	RequestDeletion(ctx context.Context, userID string) (*dto.SettingsResponse, error)
	RequestDataExport(ctx context.Context, userID string) (*dto.SettingsResponse, error)
	UploadLogo(ctx context.Context, userID string, reader io.Reader, size int64, contentType string) (string, error)
	UploadAvatar(ctx context.Context, userID string, reader io.Reader, size int64, contentType string) (string, error)
}

type settingsService struct {
	metaRepo repositories.MetadataRepository
	store    storage.Storage
}

func NewSettingsService(metaRepo repositories.MetadataRepository, store storage.Storage) SettingsService {
	return &settingsService{metaRepo: metaRepo, store: store}
}

func (s *settingsService) Get(userID string) (*dto.SettingsResponse, error) {
	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(meta), nil
}

func (s *settingsService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.SettingsResponse, error) {
	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		meta.DisplayName = *req.DisplayName
	}
	if req.ChurchName != nil {
		meta.ChurchName = *req.ChurchName
	}
	if req.ChurchWebsite != nil {
		meta.ChurchWebsite = *req.ChurchWebsite
	}
	if req.Denomination != nil {
		meta.Denomination = *req.Denomination
	}
	if req.CongregationSize != nil {
		meta.CongregationSize = *req.CongregationSize
	}
	if req.Role != nil {
		meta.Role = *req.Role
	}
	if req.Timezone != nil {
		meta.Timezone = *req.Timezone
	}

	if err := s.metaRepo.Update(meta); err != nil {
		return nil, err
	}
	return toSettingsResponse(meta), nil
}

func (s *settingsService) UpdateBranding(ctx context.Context, userID string, req *dto.UpdateBrandingRequest) (*dto.SettingsResponse, error) {
	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if req.PrimaryColor != nil {
		meta.PrimaryColor = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		meta.SecondaryColor = *req.SecondaryColor
	}
	if req.FontPreference != nil {
		meta.FontPreference = *req.FontPreference
	}

	if err := s.metaRepo.Update(meta); err != nil {
		return nil, err
	}
	return toSettingsResponse(meta), nil
}

func (s *settingsService) UpdateNotifications(ctx context.Context, userID string, req *dto.UpdateNotificationsRequest) (*dto.SettingsResponse, error) {
	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if req.NotifySermonReady != nil {
		meta.NotifySermonReady = *req.NotifySermonReady
	}
	if req.NotifySermonFailed != nil {
		meta.NotifySermonFailed = *req.NotifySermonFailed
	}
	if req.NotifyUsageWarning != nil {
		meta.NotifyUsageWarning = *req.NotifyUsageWarning
	}
	if req.NotifyBilling != nil {
		meta.NotifyBilling = *req.NotifyBilling
	}
	if req.NotifyProductUpdate != nil {
		meta.NotifyProductUpdate = *req.NotifyProductUpdate
	}

	if err := s.metaRepo.Update(meta); err != nil {
		return nil, err
	}
	return toSettingsResponse(meta), nil
}

func (s *settingsService) UpdateOnboarding(ctx context.Context, userID string, req *dto.UpdateOnboardingRequest) (*dto.SettingsResponse, error) {
	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if req.Step != nil {
		// Steps only move forward. A stale client cannot rewind progress.
		if *req.Step > meta.OnboardingStep {
			meta.OnboardingStep = *req.Step
		}
	}
	if req.Completed != nil && *req.Completed && !meta.OnboardingCompleted {
		meta.OnboardingCompleted = true
		meta.OnboardingStep = models.OnboardingStepCount
		now := time.Now()
		meta.OnboardingDoneAt = &now
	}

	if err := s.metaRepo.Update(meta); err != nil {
		return nil, err
	}
	return toSettingsResponse(meta), nil
}

func (s *settingsService) UpdateAccount(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*dto.SettingsResponse, error) {
	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if req.TwoFactorEnabled != nil {
		meta.TwoFactorEnabled = *req.TwoFactorEnabled
	}

	if err := s.metaRepo.Update(meta); err != nil {
		return nil, err
	}
	return toSettingsResponse(meta), nil
}

// RequestDeletion records a deletion request. The timestamp is set once;
// repeated requests keep the original request time.
func (s *settingsService) RequestDeletion(ctx context.Context, userID string) (*dto.SettingsResponse, error) {
	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if meta.DeletionRequestedAt == nil {
		now := time.Now()
		meta.DeletionRequestedAt = &now
		if err := s.metaRepo.Update(meta); err != nil {
			return nil, err
		}
		logger.CtxInfo(ctx, "Account deletion requested", "user_id", userID)
	}
	return toSettingsResponse(meta), nil
}

// RequestDataExport marks the account for a data export. Fulfilment happens
// out of band; each request refreshes the timestamp.
func (s *settingsService) RequestDataExport(ctx context.Context, userID string) (*dto.SettingsResponse, error) {
	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	meta.ExportRequestedAt = &now
	if err := s.metaRepo.Update(meta); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Data export requested", "user_id", userID)
	return toSettingsResponse(meta), nil
}

func (s *settingsService) UploadLogo(ctx context.Context, userID string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.uploadImage(ctx, userID, reader, size, contentType,
		"branding/%s/logo%s", func(meta *models.UserMetadata, url string) {
			meta.LogoURL = url
		})
}

func (s *settingsService) UploadAvatar(ctx context.Context, userID string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.uploadImage(ctx, userID, reader, size, contentType,
		"avatars/%s/avatar%s", func(meta *models.UserMetadata, url string) {
			meta.ProfilePictureURL = url
		})
}

// uploadImage stores a PNG or JPEG under a fixed per-user key and records
// its URL on the metadata row. Fixed keys mean re-uploads overwrite.
func (s *settingsService) uploadImage(ctx context.Context, userID string, reader io.Reader, size int64, contentType, keyFormat string, assign func(*models.UserMetadata, string)) (string, error) {
	if contentType != "image/png" && contentType != "image/jpeg" {
		return "", apperrors.ErrInvalidFileType
	}

	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	key := fmt.Sprintf(keyFormat, userID, ext)

	url, err := s.store.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return "", apperrors.UpstreamError(err, "storage")
	}

	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		return "", err
	}
	assign(meta, url)
	if err := s.metaRepo.Update(meta); err != nil {
		return "", err
	}

	logger.CtxInfo(ctx, "Image uploaded", "user_id", userID, "key", key)
	return url, nil
}

func toSettingsResponse(meta *models.UserMetadata) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		DisplayName:       meta.DisplayName,
		ChurchName:        meta.ChurchName,
		ChurchWebsite:     meta.ChurchWebsite,
		Denomination:      meta.Denomination,
		CongregationSize:  meta.CongregationSize,
		Role:              meta.Role,
		ProfilePictureURL: meta.ProfilePictureURL,
		Timezone:          meta.Timezone,

		LogoURL:        meta.LogoURL,
		PrimaryColor:   meta.PrimaryColor,
		SecondaryColor: meta.SecondaryColor,
		FontPreference: meta.FontPreference,

		NotifySermonReady:   meta.NotifySermonReady,
		NotifySermonFailed:  meta.NotifySermonFailed,
		NotifyUsageWarning:  meta.NotifyUsageWarning,
		NotifyBilling:       meta.NotifyBilling,
		NotifyProductUpdate: meta.NotifyProductUpdate,

		OnboardingStep:      meta.OnboardingStep,
		OnboardingCompleted: meta.OnboardingCompleted,
		OnboardingDoneAt:    meta.OnboardingDoneAt,

		TwoFactorEnabled:    meta.TwoFactorEnabled,
		DeletionRequestedAt: meta.DeletionRequestedAt,
		ExportRequestedAt:   meta.ExportRequestedAt,
	}
}
