package repository

import (
	"tripmate/internal/models"

	"gorm.io/gorm"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(l *models.MarkedLocation) error {
	return r.db.Create(l).Error
}

func (r *LocationRepository) GetByID(id uint) (*models.MarkedLocation, error) {
	var l models.MarkedLocation
	if err := r.db.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepository) ListByTripID(tripID uint) ([]models.MarkedLocation, error) {
	var list []models.MarkedLocation
	err := r.db.Where("trip_id = ?", tripID).Order("created_at").Find(&list).Error
	return list, err
}

func (r *LocationRepository) Update(l *models.MarkedLocation) error {
	return r.db.Save(l).Error
}

func (r *LocationRepository) Delete(id uint) error {
	return r.db.Delete(&models.MarkedLocation{}, id).Error
}
