package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
)

type AnalyticsSummary struct {
	SermonsCreated   int64
	ContentGenerated int64
	ContentExported  int64
	DevotionalViews  int64
	ByContentType    map[string]int64
	PeriodDays       int
}

type AnalyticsService interface {
	// Record is best effort. It logs failures and never returns an error, so
	// a broken analytics table cannot fail a user request.
	Record(ctx context.Context, userID string, eventType models.AnalyticsEventType, sermonID string, metadata map[string]any)
	Summary(userID string, days int) (*AnalyticsSummary, error)
	// ExportCSV renders the user's events for a date range. Every field is
	// quoted, with embedded quotes doubled.
	ExportCSV(userID string, from, to time.Time) ([]byte, error)
}

type analyticsService struct {
	repo repositories.AnalyticsRepository
}

func NewAnalyticsService(repo repositories.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

func (s *analyticsService) Record(ctx context.Context, userID string, eventType models.AnalyticsEventType, sermonID string, metadata map[string]any) {
	event := &models.AnalyticsEvent{
		UserID:    userID,
		EventType: eventType,
		SermonID:  sermonID,
	}
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			logger.CtxWarn(ctx, "Dropping unserializable analytics metadata",
				"event_type", eventType, "error", err.Error())
		} else {
			event.Metadata = raw
		}
	}

	if err := s.repo.Create(event); err != nil {
		logger.CtxWarn(ctx, "Failed to record analytics event",
			"event_type", eventType, "error", err.Error())
	}
}

func (s *analyticsService) Summary(userID string, days int) (*AnalyticsSummary, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	summary := &AnalyticsSummary{
		ByContentType: make(map[string]int64),
		PeriodDays:    days,
	}

	var err error
	if summary.SermonsCreated, err = s.repo.CountByTypeSince(userID, models.EventSermonCreated, since); err != nil {
		return nil, err
	}
	if summary.ContentGenerated, err = s.repo.CountByTypeSince(userID, models.EventContentGenerated, since); err != nil {
		return nil, err
	}
	if summary.ContentExported, err = s.repo.CountByTypeSince(userID, models.EventContentExported, since); err != nil {
		return nil, err
	}
	if summary.DevotionalViews, err = s.repo.CountByTypeSince(userID, models.EventDevotionalViewed, since); err != nil {
		return nil, err
	}

	events, err := s.repo.FindByUserBetween(userID, since, time.Now())
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		if ev.EventType != models.EventContentGenerated || len(ev.Metadata) == 0 {
			continue
		}
		var meta struct {
			ContentType string `json:"content_type"`
		}
		if json.Unmarshal(ev.Metadata, &meta) == nil && meta.ContentType != "" {
			summary.ByContentType[meta.ContentType]++
		}
	}

	return summary, nil
}

func (s *analyticsService) ExportCSV(userID string, from, to time.Time) ([]byte, error) {
	events, err := s.repo.FindByUserBetween(userID, from, to)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	writeCSVRow(&b, []string{"event_id", "event_type", "sermon_id", "metadata", "created_at"})
	for _, ev := range events {
		writeCSVRow(&b, []string{
			ev.ID,
			string(ev.EventType),
			ev.SermonID,
			string(ev.Metadata),
			ev.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return []byte(b.String()), nil
}

// writeCSVRow quotes every field unconditionally and uses CRLF line endings
// so spreadsheet imports behave the same regardless of field content.
func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}
