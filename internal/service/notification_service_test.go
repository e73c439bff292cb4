package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tripmate/internal/domain"
	"tripmate/internal/models"
	"tripmate/internal/repository"
)

func newNotifTestEnv(t *testing.T, memberCount int) (*NotificationService, *gorm.DB, *models.Trip, []models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Trip{}, &models.TripMember{},
		&models.Notification{}, &models.ScheduledNotification{},
	))

	users := make([]models.User, memberCount)
	for i := range users {
		users[i] = models.User{Username: fmt.Sprintf("member%d", i), Email: fmt.Sprintf("member%d@example.com", i)}
		require.NoError(t, db.Create(&users[i]).Error)
	}
	trip := &models.Trip{Name: "Alps hike", CreatorID: users[0].ID}
	require.NoError(t, db.Create(trip).Error)
	for i, u := range users {
		role := domain.TripRoleMember
		if i == 0 {
			role = domain.TripRoleCreator
		}
		require.NoError(t, db.Create(&models.TripMember{TripID: trip.ID, UserID: u.ID, Role: role}).Error)
	}

	svc := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewTripRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	return svc, db, trip, users
}

func TestNotifyTripMembers(t *testing.T) {
	t.Run("excluded user is skipped", func(t *testing.T) {
		svc, db, trip, users := newNotifTestEnv(t, 3)

		err := svc.NotifyTripMembers(trip.ID, users[1].ID, domain.NotifTypeExpenseAdded, nil,
			"New expense", "Dinner added", nil)
		require.NoError(t, err)

		var got []models.Notification
		require.NoError(t, db.Order("user_id").Find(&got).Error)
		require.Len(t, got, 2)
		for _, n := range got {
			assert.NotEqual(t, users[1].ID, n.UserID)
		}
	})

	t.Run("exclude zero reaches everyone", func(t *testing.T) {
		svc, db, trip, users := newNotifTestEnv(t, 3)

		err := svc.NotifyTripMembers(trip.ID, 0, domain.NotifTypePollCompleted, nil,
			"Poll ended", "Winner: Tapas", nil)
		require.NoError(t, err)

		var got []models.Notification
		require.NoError(t, db.Find(&got).Error)
		assert.Len(t, got, len(users))
	})
}

func TestScheduleForTripMembers(t *testing.T) {
	svc, db, trip, users := newNotifTestEnv(t, 3)
	sendAt := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	eventID := uint(99)
	err := svc.ScheduleForTripMembers(trip.ID, domain.NotifTypeEventReminder, &eventID,
		"Upcoming event", "Kayaking in 30 minutes", domain.ChannelPush, sendAt)
	require.NoError(t, err)

	var got []models.ScheduledNotification
	require.NoError(t, db.Order("user_id").Find(&got).Error)
	require.Len(t, got, len(users))
	for _, sn := range got {
		assert.False(t, sn.IsSent)
		assert.WithinDuration(t, sendAt, sn.SendAt, time.Second)
		require.NotNil(t, sn.RelatedID)
		assert.Equal(t, eventID, *sn.RelatedID)
	}
}
