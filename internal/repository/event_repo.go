package repository

import (
	"tripmate/internal/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(e *models.ItineraryEvent) error {
	return r.db.Create(e).Error
}

func (r *EventRepository) GetByID(id uint) (*models.ItineraryEvent, error) {
	var e models.ItineraryEvent
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) ListByTripID(tripID uint) ([]models.ItineraryEvent, error) {
	var list []models.ItineraryEvent
	err := r.db.Where("trip_id = ?", tripID).Order("starts_at").Find(&list).Error
	return list, err
}

func (r *EventRepository) Update(e *models.ItineraryEvent) error {
	return r.db.Save(e).Error
}

func (r *EventRepository) Delete(id uint) error {
	return r.db.Delete(&models.ItineraryEvent{}, id).Error
}
