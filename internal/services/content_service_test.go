package services

import (
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

func newContentService(db *gorm.DB) ContentService {
	return NewContentService(
		repositories.NewContentRepository(db),
		repositories.NewSermonRepository(db),
		NewAnalyticsService(repositories.NewAnalyticsRepository(db)),
	)
}

func TestContentUpdateReplacesPayload(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	user := createTestUser(t, db, "c@example.com")
	sermon := createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	seedNotesContent(t, db, sermon.ID)

	edited := json.RawMessage(`{"title":"Grace and Truth","big_idea":"Edited by hand."}`)
	content, err := svc.Update(context.Background(), user.ID, sermon.ID, models.ContentTypeSermonNotes, edited)
	require.NoError(t, err)

	var payload models.SermonNotesPayload
	require.NoError(t, json.Unmarshal(content.Content, &payload))
	assert.Equal(t, "Edited by hand.", payload.BigIdea)
}

func TestContentUpdateKeepsRowIdentity(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	user := createTestUser(t, db, "c@example.com")
	sermon := createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	seedNotesContent(t, db, sermon.ID)

	before, err := svc.Get(context.Background(), user.ID, sermon.ID, models.ContentTypeSermonNotes)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), user.ID, sermon.ID, models.ContentTypeSermonNotes,
		json.RawMessage(`{"title":"v2"}`))
	require.NoError(t, err)

	after, err := svc.Get(context.Background(), user.ID, sermon.ID, models.ContentTypeSermonNotes)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)

	var count int64
	require.NoError(t, db.Model(&models.GeneratedContent{}).
		Where("sermon_id = ?", sermon.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestContentUpdateRequiresExistingContent(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	user := createTestUser(t, db, "c@example.com")
	sermon := createTestSermon(t, db, user.ID, models.SermonStatusComplete)

	_, err := svc.Update(context.Background(), user.ID, sermon.ID, models.ContentTypeSermonNotes,
		json.RawMessage(`{"title":"v2"}`))
	assert.ErrorIs(t, err, repositories.ErrContentNotFound)
}

func TestContentUpdateRejectsInvalidJSON(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	user := createTestUser(t, db, "c@example.com")
	sermon := createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	seedNotesContent(t, db, sermon.ID)

	_, err := svc.Update(context.Background(), user.ID, sermon.ID, models.ContentTypeSermonNotes,
		json.RawMessage(`{"title":`))
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestContentUpdateOtherUsersSermonIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")
	sermon := createTestSermon(t, db, owner.ID, models.SermonStatusComplete)
	seedNotesContent(t, db, sermon.ID)

	_, err := svc.Update(context.Background(), intruder.ID, sermon.ID, models.ContentTypeSermonNotes,
		json.RawMessage(`{}`))
	assert.ErrorIs(t, err, repositories.ErrSermonNotFound)
}

func TestContentGetDevotionalRecordsView(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	user := createTestUser(t, db, "c@example.com")
	sermon := createTestSermon(t, db, user.ID, models.SermonStatusComplete)

	payload, err := json.Marshal(models.DevotionalPayload{Title: "Walking in Grace"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.GeneratedContent{
		SermonID:    sermon.ID,
		ContentType: models.ContentTypeDevotional,
		Content:     payload,
	}).Error)

	_, err = svc.Get(context.Background(), user.ID, sermon.ID, models.ContentTypeDevotional)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.AnalyticsEvent{}).
		Where("user_id = ? AND event_type = ?", user.ID, models.EventDevotionalViewed).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
