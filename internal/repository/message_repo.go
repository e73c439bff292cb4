package repository

import (
	"tripmate/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

// ListByTripID returns newest messages first; the frontend reverses for display.
func (r *MessageRepository) ListByTripID(tripID uint, limit, offset int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Preload("Sender").Where("trip_id = ?", tripID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
