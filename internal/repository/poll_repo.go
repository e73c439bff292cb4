package repository

import (
	"errors"
	"time"

	"tripmate/internal/domain"
	"tripmate/internal/models"

	"gorm.io/gorm"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

// Create inserts the poll together with its options.
func (r *PollRepository) Create(p *models.Poll, options []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for _, opt := range options {
			if err := tx.Create(&models.PollOption{PollID: p.ID, Option: opt}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PollRepository) GetByID(id uint) (*models.Poll, error) {
	var p models.Poll
	if err := r.db.Preload("Options").Preload("Options.Votes").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PollRepository) ListByTripID(tripID uint) ([]models.Poll, error) {
	var list []models.Poll
	err := r.db.Preload("Options").Preload("Options.Votes").
		Where("trip_id = ?", tripID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// FindExpiredActive returns ACTIVE polls whose deadline has passed, with
// options and votes loaded. The status filter doubles as the claim that
// keeps resolution idempotent across ticks.
func (r *PollRepository) FindExpiredActive(now time.Time) ([]models.Poll, error) {
	var list []models.Poll
	err := r.db.Preload("Options").Preload("Options.Votes").
		Where("status = ? AND expires_at <= ?", domain.PollStatusActive, now).
		Find(&list).Error
	return list, err
}

// SetResolution persists the poll outcome. completedAt carries the poll's
// original deadline, not the time the resolver happened to run.
func (r *PollRepository) SetResolution(pollID uint, status string, winnerID *uint, completedAt time.Time) error {
	return r.db.Model(&models.Poll{}).Where("id = ?", pollID).Updates(map[string]interface{}{
		"status":       status,
		"winner_id":    winnerID,
		"completed_at": completedAt,
	}).Error
}

// CastVote records or changes the user's vote. One vote per user per
// poll; a second cast moves the vote to the new option.
func (r *PollRepository) CastVote(pollID, optionID, userID uint) error {
	var existing models.Vote
	err := r.db.Where("poll_id = ? AND user_id = ?", pollID, userID).First(&existing).Error
	if err == nil {
		return r.db.Model(&existing).Update("poll_option_id", optionID).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.Vote{PollID: pollID, PollOptionID: optionID, UserID: userID}).Error
}

// UpdateExpiry moves the poll deadline. Early close sets it to "now"
// so the resolution records when the poll actually ended.
func (r *PollRepository) UpdateExpiry(pollID uint, expiresAt time.Time) error {
	return r.db.Model(&models.Poll{}).Where("id = ?", pollID).Update("expires_at", expiresAt).Error
}

func (r *PollRepository) Delete(id uint) error {
	return r.db.Delete(&models.Poll{}, id).Error
}
