package repository

import (
	"tripmate/internal/domain"
	"tripmate/internal/models"

	"gorm.io/gorm"
)

type InviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Create(i *models.Invite) error {
	return r.db.Create(i).Error
}

func (r *InviteRepository) GetByToken(token string) (*models.Invite, error) {
	var i models.Invite
	if err := r.db.Preload("Trip").Where("token = ?", token).First(&i).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InviteRepository) ListByTripID(tripID uint) ([]models.Invite, error) {
	var list []models.Invite
	err := r.db.Where("trip_id = ?", tripID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *InviteRepository) ListPendingByEmail(email string) ([]models.Invite, error) {
	var list []models.Invite
	err := r.db.Preload("Trip").
		Where("email = ? AND status = ?", email, domain.InviteStatusPending).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *InviteRepository) HasPending(tripID uint, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Invite{}).
		Where("trip_id = ? AND email = ? AND status = ?", tripID, email, domain.InviteStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *InviteRepository) Update(i *models.Invite) error {
	return r.db.Save(i).Error
}
