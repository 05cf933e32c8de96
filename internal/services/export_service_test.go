package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/pkg/apperrors"
)

func newExportService(t *testing.T, db *gorm.DB) ExportService {
	t.Helper()

	return NewExportService(
		repositories.NewSermonRepository(db),
		repositories.NewContentRepository(db),
		repositories.NewMetadataRepository(db),
		newTestStorage(t),
		NewAnalyticsService(repositories.NewAnalyticsRepository(db)),
	)
}

func seedNotesContent(t *testing.T, db *gorm.DB, sermonID string) {
	t.Helper()

	payload, err := json.Marshal(models.SermonNotesPayload{
		Title:      "Grace and Truth",
		BigIdea:    "Grace and truth came through Jesus Christ.",
		Scriptures: []string{"John 1:17"},
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.GeneratedContent{
		SermonID:    sermonID,
		ContentType: models.ContentTypeSermonNotes,
		Content:     payload,
	}).Error)
}

func TestExportRendersPDF(t *testing.T) {
	db := setupTestDB(t)
	svc := newExportService(t, db)
	user := createTestUser(t, db, "e@example.com")
	sermon := createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	seedNotesContent(t, db, sermon.ID)

	result, err := svc.Export(context.Background(), user.ID, sermon.ID, models.ContentTypeSermonNotes, FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "Grace_and_Truth_sermon_notes.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))

	// The export shows up in analytics.
	var count int64
	require.NoError(t, db.Model(&models.AnalyticsEvent{}).
		Where("user_id = ? AND event_type = ?", user.ID, models.EventContentExported).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestExportMissingContentMessage(t *testing.T) {
	db := setupTestDB(t)
	svc := newExportService(t, db)
	user := createTestUser(t, db, "e@example.com")
	sermon := createTestSermon(t, db, user.ID, models.SermonStatusComplete)

	_, err := svc.Export(context.Background(), user.ID, sermon.ID, models.ContentTypeSermonNotes, FormatPDF)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)
	assert.Equal(t, "Sermon notes not found. Please generate sermon notes first.", appErr.Message)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	db := setupTestDB(t)
	svc := newExportService(t, db)
	user := createTestUser(t, db, "e@example.com")
	sermon := createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	seedNotesContent(t, db, sermon.ID)

	_, err := svc.Export(context.Background(), user.ID, sermon.ID, models.ContentTypeSermonNotes, ExportFormat("xls"))
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestExportOtherUsersSermonIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newExportService(t, db)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")
	sermon := createTestSermon(t, db, owner.ID, models.SermonStatusComplete)
	seedNotesContent(t, db, sermon.ID)

	_, err := svc.Export(context.Background(), intruder.ID, sermon.ID, models.ContentTypeSermonNotes, FormatPDF)
	assert.ErrorIs(t, err, repositories.ErrSermonNotFound)
}
