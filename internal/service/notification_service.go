package service

import (
	"context"
	"encoding/json"
	"time"

	"tripmate/internal/models"
	"tripmate/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	tripRepo *repository.TripRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
}

func NewNotificationService(repo *repository.NotificationRepository, tripRepo *repository.TripRepository, userRepo *repository.UserRepository, fcm *FCMService) *NotificationService {
	return &NotificationService{repo: repo, tripRepo: tripRepo, userRepo: userRepo, fcm: fcm}
}

// Notify writes an in-app notification and pushes via FCM best effort.
func (s *NotificationService) Notify(userID uint, notifType string, relatedID *uint, title, message string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID:    userID,
		Type:      notifType,
		RelatedID: relatedID,
		Title:     title,
		Message:   message,
		Data:      dataJSON,
	})
	if err != nil {
		return err
	}
	s.sendPush(userID, title, message, data)
	return nil
}

// NotifyTripMembers fans one notification out to every member of the
// trip. excludeUserID skips the acting user for "someone else did X"
// flows; pass 0 to include everyone (poll results go to the creator too).
func (s *NotificationService) NotifyTripMembers(tripID, excludeUserID uint, notifType string, relatedID *uint, title, message string, data map[string]interface{}) error {
	ids, err := s.tripRepo.MemberUserIDs(tripID)
	if err != nil {
		return err
	}
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	batch := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		if id == excludeUserID {
			continue
		}
		batch = append(batch, models.Notification{
			UserID:    id,
			Type:      notifType,
			RelatedID: relatedID,
			Title:     title,
			Message:   message,
			Data:      dataJSON,
		})
	}
	if err := s.repo.CreateBatch(batch); err != nil {
		return err
	}
	for _, n := range batch {
		s.sendPush(n.UserID, title, message, data)
	}
	return nil
}

// Schedule queues a notification for delivery at sendAt. The background
// reconciliation job materializes it once the time has passed.
func (s *NotificationService) Schedule(userID uint, notifType string, relatedID *uint, title, message, channel string, sendAt time.Time, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	return s.repo.CreateScheduled(&models.ScheduledNotification{
		UserID:    userID,
		Type:      notifType,
		RelatedID: relatedID,
		Title:     title,
		Message:   message,
		Data:      dataJSON,
		Channel:   channel,
		SendAt:    sendAt,
	})
}

// ScheduleForTripMembers queues the same delayed notification for every
// current trip member (event reminders, trip start countdowns).
func (s *NotificationService) ScheduleForTripMembers(tripID uint, notifType string, relatedID *uint, title, message, channel string, sendAt time.Time) error {
	ids, err := s.tripRepo.MemberUserIDs(tripID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Schedule(id, notifType, relatedID, title, message, channel, sendAt, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *NotificationService) sendPush(userID uint, title, message string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	payload := make(map[string]string, len(data))
	for k, v := range data {
		if str, ok := v.(string); ok {
			payload[k] = str
		}
	}
	_ = s.fcm.Send(context.Background(), u.FCMToken, title, message, payload)
}
