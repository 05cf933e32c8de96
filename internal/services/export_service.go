package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"sermonforge_backend/internal/export"
	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/internal/storage"
	"sermonforge_backend/pkg/apperrors"
)

type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatDOCX ExportFormat = "docx"
	FormatPPTX ExportFormat = "pptx"
)

// ExportResult is a rendered file ready to stream to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService interface {
	Export(ctx context.Context, userID, sermonID string, contentType models.ContentType, format ExportFormat) (*ExportResult, error)
}

type exportService struct {
	sermonRepo  repositories.SermonRepository
	contentRepo repositories.ContentRepository
	metaRepo    repositories.MetadataRepository
	store       storage.Storage
	analytics   AnalyticsService
}

func NewExportService(
	sermonRepo repositories.SermonRepository,
	contentRepo repositories.ContentRepository,
	metaRepo repositories.MetadataRepository,
	store storage.Storage,
	analytics AnalyticsService,
) ExportService {
	return &exportService{
		sermonRepo:  sermonRepo,
		contentRepo: contentRepo,
		metaRepo:    metaRepo,
		store:       store,
		analytics:   analytics,
	}
}

var exportMIMETypes = map[ExportFormat]string{
	FormatPDF:  "application/pdf",
	FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FormatPPTX: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

func (s *exportService) Export(ctx context.Context, userID, sermonID string, contentType models.ContentType, format ExportFormat) (*ExportResult, error) {
	mime, ok := exportMIMETypes[format]
	if !ok {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Unsupported export format: %s", format))
	}

	sermon, err := s.sermonRepo.FindByIDForUser(sermonID, userID)
	if err != nil {
		return nil, err
	}

	content, err := s.contentRepo.FindBySermonAndType(sermonID, contentType)
	if errors.Is(err, repositories.ErrContentNotFound) {
		label := models.ContentTypeLabel(contentType)
		return nil, apperrors.NewNotFoundError("content", fmt.Sprintf(
			"%s not found. Please generate %s first.",
			label, lowerFirst(label)))
	}
	if err != nil {
		return nil, err
	}

	doc, err := export.Flatten(contentType, []byte(content.Content))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	branding := s.loadBranding(ctx, userID)

	var data []byte
	switch format {
	case FormatPDF:
		data, err = export.RenderPDF(doc, branding)
	case FormatDOCX:
		data, err = export.RenderDOCX(doc, branding)
	case FormatPPTX:
		data, err = export.RenderPPTX(doc, branding)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.analytics.Record(ctx, userID, models.EventContentExported, sermonID, map[string]any{
		"content_type": contentType,
		"format":       format,
	})

	return &ExportResult{
		Filename:    fmt.Sprintf("%s_%s.%s", export.SanitizeFilename(sermon.Title), contentType, format),
		ContentType: mime,
		Data:        data,
	}, nil
}

// loadBranding pulls the user's branding. Failures degrade to defaults: an
// export never fails because a logo went missing.
func (s *exportService) loadBranding(ctx context.Context, userID string) export.Branding {
	branding := export.Branding{
		PrimaryColor:   "#1F2937",
		SecondaryColor: "#6B7280",
		FontPreference: "serif",
	}

	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil {
		logger.CtxWarn(ctx, "Exporting without branding", "error", err.Error())
		return branding
	}

	branding.ChurchName = meta.ChurchName
	if meta.PrimaryColor != "" {
		branding.PrimaryColor = meta.PrimaryColor
	}
	if meta.SecondaryColor != "" {
		branding.SecondaryColor = meta.SecondaryColor
	}
	if meta.FontPreference != "" {
		branding.FontPreference = meta.FontPreference
	}

	if meta.LogoURL != "" {
		branding.Logo = s.loadLogo(ctx, userID)
	}
	return branding
}

func (s *exportService) loadLogo(ctx context.Context, userID string) []byte {
	for _, ext := range []string{".png", ".jpg"} {
		key := fmt.Sprintf("branding/%s/logo%s", userID, ext)
		rc, err := s.store.Download(ctx, key)
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err == nil && len(data) > 0 {
			return data
		}
	}
	logger.CtxWarn(ctx, "Logo referenced but not readable, exporting without it", "user_id", userID)
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}
