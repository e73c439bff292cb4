package jobs

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
	"tripmate/internal/service"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Trip{},
		&models.TripMember{},
		&models.Poll{},
		&models.PollOption{},
		&models.Vote{},
		&models.Notification{},
		&models.ScheduledNotification{},
	))
	return db
}

type fixture struct {
	db        *gorm.DB
	rec       *Reconciler
	notifRepo *repository.NotificationRepository
	pollRepo  *repository.PollRepository
	trip      *models.Trip
	creator   models.User
	members   []models.User
}

// newFixture seeds a trip whose creator plus (memberCount-1) extra
// users are members, and wires a reconciler on top.
func newFixture(t *testing.T, memberCount int) *fixture {
	t.Helper()
	db := newTestDB(t)

	users := make([]models.User, memberCount)
	for i := range users {
		users[i] = models.User{Username: fmt.Sprintf("user%d", i), Email: fmt.Sprintf("user%d@example.com", i)}
		require.NoError(t, db.Create(&users[i]).Error)
	}
	trip := &models.Trip{Name: "Lisbon weekend", CreatorID: users[0].ID}
	require.NoError(t, db.Create(trip).Error)
	for i, u := range users {
		role := domain.TripRoleMember
		if i == 0 {
			role = domain.TripRoleCreator
		}
		require.NoError(t, db.Create(&models.TripMember{
			TripID: trip.ID, UserID: u.ID, Role: role, JoinedAt: time.Now(),
		}).Error)
	}

	notifRepo := repository.NewNotificationRepository(db)
	pollRepo := repository.NewPollRepository(db)
	tripRepo := repository.NewTripRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifSvc := service.NewNotificationService(notifRepo, tripRepo, userRepo, nil)

	return &fixture{
		db:        db,
		rec:       NewReconciler(notifRepo, pollRepo, notifSvc),
		notifRepo: notifRepo,
		pollRepo:  pollRepo,
		trip:      trip,
		creator:   users[0],
		members:   users,
	}
}

func (f *fixture) createPoll(t *testing.T, question string, expiresAt time.Time, options ...string) *models.Poll {
	t.Helper()
	p := &models.Poll{
		TripID:      f.trip.ID,
		Question:    question,
		Status:      domain.PollStatusActive,
		ExpiresAt:   expiresAt,
		CreatedByID: f.creator.ID,
	}
	require.NoError(t, f.pollRepo.Create(p, options))
	loaded, err := f.pollRepo.GetByID(p.ID)
	require.NoError(t, err)
	return loaded
}

func (f *fixture) vote(t *testing.T, p *models.Poll, optionIdx int, voters ...models.User) {
	t.Helper()
	for _, u := range voters {
		require.NoError(t, f.pollRepo.CastVote(p.ID, p.Options[optionIdx].ID, u.ID))
	}
}

func (f *fixture) notifications(t *testing.T, notifType string) []models.Notification {
	t.Helper()
	var list []models.Notification
	require.NoError(t, f.db.Where("type = ?", notifType).Order("id").Find(&list).Error)
	return list
}

func TestDispatchDueNotifications(t *testing.T) {
	f := newFixture(t, 2)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	mkScheduled := func(userID uint, sendAt time.Time) *models.ScheduledNotification {
		sn := &models.ScheduledNotification{
			UserID:  userID,
			Type:    domain.NotifTypeEventReminder,
			Title:   "Upcoming event",
			Message: "Museum tour starts soon",
			Channel: domain.ChannelInApp,
			SendAt:  sendAt,
		}
		require.NoError(t, f.notifRepo.CreateScheduled(sn))
		return sn
	}

	due1 := mkScheduled(f.members[0].ID, now.Add(-time.Minute))
	due2 := mkScheduled(f.members[1].ID, now) // send_at == now counts as due
	future := mkScheduled(f.members[0].ID, now.Add(time.Hour))

	require.NoError(t, f.rec.DispatchDueNotifications(now))

	var sent []models.ScheduledNotification
	require.NoError(t, f.db.Where("is_sent = ?", true).Find(&sent).Error)
	assert.Len(t, sent, 2)

	var untouched models.ScheduledNotification
	require.NoError(t, f.db.First(&untouched, future.ID).Error)
	assert.False(t, untouched.IsSent)

	delivered := f.notifications(t, domain.NotifTypeEventReminder)
	require.Len(t, delivered, 2)
	assert.Equal(t, due1.UserID, delivered[0].UserID)
	assert.Equal(t, due1.Title, delivered[0].Title)
	assert.Equal(t, due1.Message, delivered[0].Message)
	assert.Equal(t, due2.UserID, delivered[1].UserID)

	t.Run("second run delivers nothing new", func(t *testing.T) {
		require.NoError(t, f.rec.DispatchDueNotifications(now))
		assert.Len(t, f.notifications(t, domain.NotifTypeEventReminder), 2)
	})

	t.Run("later tick picks up the future row once", func(t *testing.T) {
		later := now.Add(2 * time.Hour)
		require.NoError(t, f.rec.DispatchDueNotifications(later))
		assert.Len(t, f.notifications(t, domain.NotifTypeEventReminder), 3)

		require.NoError(t, f.rec.DispatchDueNotifications(later))
		assert.Len(t, f.notifications(t, domain.NotifTypeEventReminder), 3)
	})
}

func TestResolveExpiredPolls(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-30 * time.Minute)

	t.Run("clear winner completes the poll", func(t *testing.T) {
		f := newFixture(t, 4)
		p := f.createPoll(t, "Where to eat?", expired, "Tapas", "Ramen")
		f.vote(t, p, 0, f.members[0], f.members[1], f.members[2])
		f.vote(t, p, 1, f.members[3])

		require.NoError(t, f.rec.ResolveExpiredPolls(now))

		got, err := f.pollRepo.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PollStatusCompleted, got.Status)
		require.NotNil(t, got.WinnerID)
		assert.Equal(t, p.Options[0].ID, *got.WinnerID)
		require.NotNil(t, got.CompletedAt)
		assert.WithinDuration(t, expired, *got.CompletedAt, time.Second)

		done := f.notifications(t, domain.NotifTypePollCompleted)
		require.Len(t, done, 4, "every member gets the result, creator included")
		seen := map[uint]bool{}
		for _, n := range done {
			seen[n.UserID] = true
			assert.Contains(t, n.Message, "Winner: Tapas (3 votes)")
		}
		assert.True(t, seen[f.creator.ID])
	})

	t.Run("tie lists the tied options", func(t *testing.T) {
		f := newFixture(t, 4)
		p := f.createPoll(t, "Which day?", expired, "Saturday", "Sunday", "Monday")
		f.vote(t, p, 0, f.members[0], f.members[1])
		f.vote(t, p, 1, f.members[2], f.members[3])

		require.NoError(t, f.rec.ResolveExpiredPolls(now))

		got, err := f.pollRepo.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PollStatusTie, got.Status)
		assert.Nil(t, got.WinnerID)

		done := f.notifications(t, domain.NotifTypePollCompleted)
		require.NotEmpty(t, done)
		assert.Contains(t, done[0].Message, "tie between Saturday, Sunday")
		assert.NotContains(t, done[0].Message, "Monday")
	})

	t.Run("zero votes resolves as tie", func(t *testing.T) {
		f := newFixture(t, 2)
		p := f.createPoll(t, "Rental car?", expired, "Yes", "No")

		require.NoError(t, f.rec.ResolveExpiredPolls(now))

		got, err := f.pollRepo.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PollStatusTie, got.Status)
		assert.Nil(t, got.WinnerID)

		done := f.notifications(t, domain.NotifTypePollCompleted)
		require.NotEmpty(t, done)
		assert.Contains(t, done[0].Message, "ended with no votes")
	})

	t.Run("unexpired poll is left alone", func(t *testing.T) {
		f := newFixture(t, 2)
		p := f.createPoll(t, "Hostel or hotel?", now.Add(time.Hour), "Hostel", "Hotel")

		require.NoError(t, f.rec.ResolveExpiredPolls(now))

		got, err := f.pollRepo.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PollStatusActive, got.Status)
		assert.Empty(t, f.notifications(t, domain.NotifTypePollCompleted))
	})

	t.Run("resolution does not repeat on the next tick", func(t *testing.T) {
		f := newFixture(t, 3)
		p := f.createPoll(t, "Where to eat?", expired, "Tapas", "Ramen")
		f.vote(t, p, 0, f.members[1])

		require.NoError(t, f.rec.ResolveExpiredPolls(now))
		require.NoError(t, f.rec.ResolveExpiredPolls(now.Add(5*time.Minute)))

		assert.Len(t, f.notifications(t, domain.NotifTypePollCompleted), 3)
	})

	t.Run("delayed resolution still records the deadline", func(t *testing.T) {
		f := newFixture(t, 2)
		deadline := now.Add(-48 * time.Hour)
		p := f.createPoll(t, "Old question", deadline, "A", "B")

		require.NoError(t, f.rec.ResolveExpiredPolls(now))

		got, err := f.pollRepo.GetByID(p.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CompletedAt)
		assert.WithinDuration(t, deadline, *got.CompletedAt, time.Second)
	})
}

func TestSchedulerRunOnce(t *testing.T) {
	f := newFixture(t, 3)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.notifRepo.CreateScheduled(&models.ScheduledNotification{
		UserID:  f.members[1].ID,
		Type:    domain.NotifTypeTripReminder,
		Title:   "Trip starts tomorrow",
		Message: "Pack your bags",
		Channel: domain.ChannelPush,
		SendAt:  now.Add(-time.Minute),
	}))
	p := f.createPoll(t, "Where to eat?", now.Add(-time.Minute), "Tapas", "Ramen")
	f.vote(t, p, 1, f.members[2])

	s := NewScheduler(f.rec, 5, func() time.Time { return now })
	s.RunOnce()

	assert.Len(t, f.notifications(t, domain.NotifTypeTripReminder), 1)

	got, err := f.pollRepo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PollStatusCompleted, got.Status)

	done := f.notifications(t, domain.NotifTypePollCompleted)
	assert.Len(t, done, 3)

	// A second tick at the same instant changes nothing.
	s.RunOnce()
	assert.Len(t, f.notifications(t, domain.NotifTypeTripReminder), 1)
	assert.Len(t, f.notifications(t, domain.NotifTypePollCompleted), 3)
}
