package repositories

import (
	"errors"

	"gorm.io/gorm"

	"sermonforge_backend/internal/models"
)

type MetadataRepository interface {
	// GetOrCreate returns the user's metadata row, creating a default one on
	// first access.
	GetOrCreate(userID string) (*models.UserMetadata, error)
	Update(meta *models.UserMetadata) error
}

type MetadataRepositoryImpl struct {
	db *gorm.DB
}

func NewMetadataRepository(db *gorm.DB) MetadataRepository {
	return &MetadataRepositoryImpl{db: db}
}

func (r *MetadataRepositoryImpl) GetOrCreate(userID string) (*models.UserMetadata, error) {
	var meta models.UserMetadata
	err := r.db.First(&meta, "user_id = ?", userID).Error
	if err == nil {
		return &meta, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	meta = models.UserMetadata{
		UserID:         userID,
		PrimaryColor:   "#1F2937",
		SecondaryColor: "#6B7280",
		FontPreference: "serif",

		NotifySermonReady:  true,
		NotifySermonFailed: true,
		NotifyUsageWarning: true,
		NotifyBilling:      true,
	}
	if err := r.db.Create(&meta).Error; err != nil {
		return nil, err
	}
	return &meta, nil
}

func (r *MetadataRepositoryImpl) Update(meta *models.UserMetadata) error {
	return r.db.Save(meta).Error
}
