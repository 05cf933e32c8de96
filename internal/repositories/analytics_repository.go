package repositories

import (
	"time"

	"gorm.io/gorm"

	"sermonforge_backend/internal/models"
)

type AnalyticsRepository interface {
	Create(event *models.AnalyticsEvent) error
	FindByUserBetween(userID string, from, to time.Time) ([]models.AnalyticsEvent, error)
	CountByTypeSince(userID string, eventType models.AnalyticsEventType, since time.Time) (int64, error)
}

type AnalyticsRepositoryImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &AnalyticsRepositoryImpl{db: db}
}

func (r *AnalyticsRepositoryImpl) Create(event *models.AnalyticsEvent) error {
	return r.db.Create(event).Error
}

func (r *AnalyticsRepositoryImpl) FindByUserBetween(userID string, from, to time.Time) ([]models.AnalyticsEvent, error) {
	var events []models.AnalyticsEvent
	err := r.db.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *AnalyticsRepositoryImpl) CountByTypeSince(userID string, eventType models.AnalyticsEventType, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.AnalyticsEvent{}).
		Where("user_id = ? AND event_type = ? AND created_at >= ?", userID, eventType, since).
		Count(&count).Error
	return count, err
}
