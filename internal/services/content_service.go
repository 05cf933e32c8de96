package services

import (
	"context"
	"encoding/json"

	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/pkg/apperrors"
)

type ContentService interface {
	Get(ctx context.Context, userID, sermonID string, contentType models.ContentType) (*models.GeneratedContent, error)
	List(userID, sermonID string) ([]models.GeneratedContent, error)
	// Update replaces the payload of already-generated content with the
	// user's edits.
	Update(ctx context.Context, userID, sermonID string, contentType models.ContentType, payload json.RawMessage) (*models.GeneratedContent, error)
}

type contentService struct {
	contentRepo repositories.ContentRepository
	sermonRepo  repositories.SermonRepository
	analytics   AnalyticsService
}

func NewContentService(
	contentRepo repositories.ContentRepository,
	sermonRepo repositories.SermonRepository,
	analytics AnalyticsService,
) ContentService {
	return &contentService{
		contentRepo: contentRepo,
		sermonRepo:  sermonRepo,
		analytics:   analytics,
	}
}

func (s *contentService) Get(ctx context.Context, userID, sermonID string, contentType models.ContentType) (*models.GeneratedContent, error) {
	// Ownership check goes through the sermon: content has no user column.
	if _, err := s.sermonRepo.FindByIDForUser(sermonID, userID); err != nil {
		return nil, err
	}

	content, err := s.contentRepo.FindBySermonAndType(sermonID, contentType)
	if err != nil {
		return nil, err
	}

	if contentType == models.ContentTypeDevotional {
		s.analytics.Record(ctx, userID, models.EventDevotionalViewed, sermonID, nil)
	}
	return content, nil
}

func (s *contentService) List(userID, sermonID string) ([]models.GeneratedContent, error) {
	if _, err := s.sermonRepo.FindByIDForUser(sermonID, userID); err != nil {
		return nil, err
	}
	return s.contentRepo.ListBySermon(sermonID)
}

func (s *contentService) Update(ctx context.Context, userID, sermonID string, contentType models.ContentType, payload json.RawMessage) (*models.GeneratedContent, error) {
	if _, err := s.sermonRepo.FindByIDForUser(sermonID, userID); err != nil {
		return nil, err
	}
	if !json.Valid(payload) {
		return nil, apperrors.NewBadRequestError("Content payload must be valid JSON")
	}

	// Edits only apply to content that exists; generation creates rows.
	if _, err := s.contentRepo.FindBySermonAndType(sermonID, contentType); err != nil {
		return nil, err
	}

	if err := s.contentRepo.Upsert(&models.GeneratedContent{
		SermonID:    sermonID,
		ContentType: contentType,
		Content:     []byte(payload),
	}); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Content edited", "sermon_id", sermonID, "content_type", contentType)
	return s.contentRepo.FindBySermonAndType(sermonID, contentType)
}
