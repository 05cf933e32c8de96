package database

import (
	"gorm.io/gorm"

	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
)

// Migrate applies the schema for every model.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations")

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.UserMetadata{},
		&models.Sermon{},
		&models.GeneratedContent{},
		&models.Subscription{},
		&models.AnalyticsEvent{},
	)
}
