package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sermonforge_backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Sermon{},
		&models.GeneratedContent{},
	))
	return db
}

func seedSermon(t *testing.T, db *gorm.DB) *models.Sermon {
	t.Helper()
	user := &models.User{Email: "u@example.com", PasswordHash: "x", Status: models.UserStatusActive}
	require.NoError(t, db.Create(user).Error)

	sermon := &models.Sermon{
		UserID:    user.ID,
		Title:     "The Prodigal Son",
		InputType: models.InputTypeAudio,
		Status:    models.SermonStatusGenerating,
	}
	require.NoError(t, db.Create(sermon).Error)
	return sermon
}

func TestUpsertInsertsNewContent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	sermon := seedSermon(t, db)

	err := repo.Upsert(&models.GeneratedContent{
		SermonID:    sermon.ID,
		ContentType: models.ContentTypeSermonNotes,
		Content:     []byte(`{"title":"v1"}`),
	})
	require.NoError(t, err)

	got, err := repo.FindBySermonAndType(sermon.ID, models.ContentTypeSermonNotes)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"v1"}`, string(got.Content))
}

func TestUpsertReplacesContentInPlace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	sermon := seedSermon(t, db)

	require.NoError(t, repo.Upsert(&models.GeneratedContent{
		SermonID:    sermon.ID,
		ContentType: models.ContentTypeDevotional,
		Content:     []byte(`{"title":"v1"}`),
	}))

	first, err := repo.FindBySermonAndType(sermon.ID, models.ContentTypeDevotional)
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(&models.GeneratedContent{
		SermonID:    sermon.ID,
		ContentType: models.ContentTypeDevotional,
		Content:     []byte(`{"title":"v2"}`),
	}))

	second, err := repo.FindBySermonAndType(sermon.ID, models.ContentTypeDevotional)
	require.NoError(t, err)

	// Regeneration keeps the original row identity.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
	assert.JSONEq(t, `{"title":"v2"}`, string(second.Content))

	var count int64
	require.NoError(t, db.Model(&models.GeneratedContent{}).
		Where("sermon_id = ?", sermon.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertKeepsTypesIndependent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	sermon := seedSermon(t, db)

	for _, ct := range models.AllContentTypes {
		require.NoError(t, repo.Upsert(&models.GeneratedContent{
			SermonID:    sermon.ID,
			ContentType: ct,
			Content:     []byte(`{"title":"x"}`),
		}))
	}

	contents, err := repo.ListBySermon(sermon.ID)
	require.NoError(t, err)
	assert.Len(t, contents, len(models.AllContentTypes))
}

func TestFindMissingContentReturnsSentinel(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	sermon := seedSermon(t, db)

	_, err := repo.FindBySermonAndType(sermon.ID, models.ContentTypeKidsVersion)
	assert.ErrorIs(t, err, ErrContentNotFound)
}
