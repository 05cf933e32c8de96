package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/storage"
)

// setupTestDB opens an isolated in-memory SQLite database. The shared-cache
// DSN keyed by test name keeps gorm's pooled connections on the same DB.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.UserMetadata{},
		&models.Sermon{},
		&models.GeneratedContent{},
		&models.Subscription{},
		&models.AnalyticsEvent{},
	)
	require.NoError(t, err)
	return db
}

func newTestStorage(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)
	return store
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSermon(t *testing.T, db *gorm.DB, userID string, status models.SermonStatus) *models.Sermon {
	t.Helper()
	sermon := &models.Sermon{
		UserID:    userID,
		Title:     "Grace and Truth",
		InputType: models.InputTypeAudio,
		Status:    status,
		MediaURL:  "https://example.com/sermon.mp3",
	}
	require.NoError(t, db.Create(sermon).Error)
	return sermon
}

func createActiveSubscription(t *testing.T, db *gorm.DB, userID, planID string) *models.Subscription {
	t.Helper()
	now := time.Now()
	start := now.AddDate(0, 0, -10)
	end := now.AddDate(0, 0, 20)
	sub := &models.Subscription{
		UserID:             userID,
		PlanID:             planID,
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: &start,
		CurrentPeriodEnd:   &end,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}
