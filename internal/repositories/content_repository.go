package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sermonforge_backend/internal/models"
)

var ErrContentNotFound = errors.New("generated content not found")

type ContentRepository interface {
	// Upsert inserts or updates the single row for (sermon_id, content_type).
	// On conflict only content and updated_at change; the original id and
	// created_at survive regeneration.
	Upsert(content *models.GeneratedContent) error
	FindBySermonAndType(sermonID string, contentType models.ContentType) (*models.GeneratedContent, error)
	ListBySermon(sermonID string) ([]models.GeneratedContent, error)
	DeleteBySermon(sermonID string) error
}

type ContentRepositoryImpl struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &ContentRepositoryImpl{db: db}
}

func (r *ContentRepositoryImpl) Upsert(content *models.GeneratedContent) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sermon_id"}, {Name: "content_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(content).Error
}

func (r *ContentRepositoryImpl) FindBySermonAndType(sermonID string, contentType models.ContentType) (*models.GeneratedContent, error) {
	var content models.GeneratedContent
	err := r.db.First(&content, "sermon_id = ? AND content_type = ?", sermonID, contentType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepositoryImpl) ListBySermon(sermonID string) ([]models.GeneratedContent, error) {
	var contents []models.GeneratedContent
	err := r.db.Where("sermon_id = ?", sermonID).
		Order("content_type ASC").
		Find(&contents).Error
	return contents, err
}

func (r *ContentRepositoryImpl) DeleteBySermon(sermonID string) error {
	return r.db.Delete(&models.GeneratedContent{}, "sermon_id = ?", sermonID).Error
}
