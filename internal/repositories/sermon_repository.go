package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"sermonforge_backend/internal/models"
)

var ErrSermonNotFound = errors.New("sermon not found")

type SermonRepository interface {
	Create(sermon *models.Sermon) error
	FindByID(id string) (*models.Sermon, error)
	// FindByIDForUser enforces ownership. A sermon belonging to another user
	// is reported as not found, never as forbidden.
	FindByIDForUser(id, userID string) (*models.Sermon, error)
	ListByUser(userID string, page, perPage int) ([]models.Sermon, int64, error)
	Update(sermon *models.Sermon) error
	UpdateStatus(id string, status models.SermonStatus, message string) error
	UpdateTranscript(id, transcript, transcriptID string, durationSec int) error
	Delete(id, userID string) error
	// CountByUserSince counts sermons the user created in the window,
	// regardless of status. Every created sermon consumes quota.
	CountByUserSince(userID string, since time.Time) (int64, error)
}

type SermonRepositoryImpl struct {
	db *gorm.DB
}

func NewSermonRepository(db *gorm.DB) SermonRepository {
	return &SermonRepositoryImpl{db: db}
}

func (r *SermonRepositoryImpl) Create(sermon *models.Sermon) error {
	return r.db.Create(sermon).Error
}

func (r *SermonRepositoryImpl) FindByID(id string) (*models.Sermon, error) {
	var sermon models.Sermon
	err := r.db.First(&sermon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSermonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sermon, nil
}

func (r *SermonRepositoryImpl) FindByIDForUser(id, userID string) (*models.Sermon, error) {
	var sermon models.Sermon
	err := r.db.First(&sermon, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSermonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sermon, nil
}

func (r *SermonRepositoryImpl) ListByUser(userID string, page, perPage int) ([]models.Sermon, int64, error) {
	var sermons []models.Sermon
	var total int64

	q := r.db.Model(&models.Sermon{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&sermons).Error
	if err != nil {
		return nil, 0, err
	}
	return sermons, total, nil
}

func (r *SermonRepositoryImpl) Update(sermon *models.Sermon) error {
	return r.db.Save(sermon).Error
}

func (r *SermonRepositoryImpl) UpdateStatus(id string, status models.SermonStatus, message string) error {
	updates := map[string]interface{}{
		"status":         status,
		"status_message": message,
	}
	if status == models.SermonStatusComplete {
		now := time.Now()
		updates["processed_at"] = &now
	}
	return r.db.Model(&models.Sermon{}).Where("id = ?", id).Updates(updates).Error
}

func (r *SermonRepositoryImpl) UpdateTranscript(id, transcript, transcriptID string, durationSec int) error {
	return r.db.Model(&models.Sermon{}).Where("id = ?", id).Updates(map[string]interface{}{
		"transcript":    transcript,
		"transcript_id": transcriptID,
		"duration_sec":  durationSec,
	}).Error
}

func (r *SermonRepositoryImpl) Delete(id, userID string) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Sermon{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSermonNotFound
	}
	return nil
}

func (r *SermonRepositoryImpl) CountByUserSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Sermon{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
