package repository

import (
	"time"

	"tripmate/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) CreateBatch(list []models.Notification) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.Create(&list).Error
}

func (r *NotificationRepository) ListByUserID(userID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("user_id = ? AND read_at IS NULL", userID).Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(id, userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", time.Now()).Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now()).Error
}

// CreateScheduled queues a notification for future delivery by the
// reconciliation job.
func (r *NotificationRepository) CreateScheduled(sn *models.ScheduledNotification) error {
	return r.db.Create(sn).Error
}

// FindDueScheduled returns unsent scheduled notifications whose send
// time has arrived. The is_sent filter is the claim that keeps delivery
// at-most-once across ticks.
func (r *NotificationRepository) FindDueScheduled(now time.Time) ([]models.ScheduledNotification, error) {
	var list []models.ScheduledNotification
	err := r.db.Where("is_sent = ? AND send_at <= ?", false, now).Find(&list).Error
	return list, err
}

// MarkScheduledSent flips is_sent for the whole batch in one update.
func (r *NotificationRepository) MarkScheduledSent(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.ScheduledNotification{}).Where("id IN ?", ids).Update("is_sent", true).Error
}
