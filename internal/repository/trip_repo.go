package repository

import (
	"time"

	"tripmate/internal/domain"
	"tripmate/internal/models"

	"gorm.io/gorm"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts the trip and its creator membership in one transaction.
func (r *TripRepository) Create(t *models.Trip) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		member := &models.TripMember{
			TripID:   t.ID,
			UserID:   t.CreatorID,
			Role:     domain.TripRoleCreator,
			JoinedAt: time.Now(),
		}
		return tx.Create(member).Error
	})
}

func (r *TripRepository) GetByID(id uint) (*models.Trip, error) {
	var t models.Trip
	if err := r.db.Preload("Members").Preload("Members.User").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TripRepository) ListByUserID(userID uint) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.
		Joins("JOIN trip_members ON trip_members.trip_id = trips.id").
		Where("trip_members.user_id = ?", userID).
		Order("trips.created_at DESC").
		Find(&trips).Error
	return trips, err
}

func (r *TripRepository) Update(t *models.Trip) error {
	return r.db.Save(t).Error
}

func (r *TripRepository) Delete(id uint) error {
	return r.db.Delete(&models.Trip{}, id).Error
}

func (r *TripRepository) AddMember(m *models.TripMember) error {
	return r.db.Create(m).Error
}

func (r *TripRepository) RemoveMember(tripID, userID uint) error {
	return r.db.Where("trip_id = ? AND user_id = ?", tripID, userID).Delete(&models.TripMember{}).Error
}

// GetMember returns the membership row, or gorm.ErrRecordNotFound if the
// user is not on the trip. Handlers use it for authorization checks.
func (r *TripRepository) GetMember(tripID, userID uint) (*models.TripMember, error) {
	var m models.TripMember
	if err := r.db.Where("trip_id = ? AND user_id = ?", tripID, userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TripRepository) ListMembers(tripID uint) ([]models.TripMember, error) {
	var members []models.TripMember
	err := r.db.Preload("User").Where("trip_id = ?", tripID).Order("joined_at").Find(&members).Error
	return members, err
}

// MemberUserIDs returns the user IDs of everyone on the trip.
func (r *TripRepository) MemberUserIDs(tripID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.TripMember{}).Where("trip_id = ?", tripID).Pluck("user_id", &ids).Error
	return ids, err
}

func (r *TripRepository) UpdateMemberRole(tripID, userID uint, role string) error {
	return r.db.Model(&models.TripMember{}).
		Where("trip_id = ? AND user_id = ?", tripID, userID).
		Update("role", role).Error
}
