package repository

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
)

func openTestDB(t *testing.T) *gorm.DB {
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
	))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{Username: fmt.Sprintf("u%d", i), Email: fmt.Sprintf("u%d@example.com", i)}
		require.NoError(t, db.Create(&users[i]).Error)
	}
	return users
}

func TestTripRepository_CreateAddsCreatorMember(t *testing.T) {
	db := openTestDB(t)
	repo := NewTripRepository(db)
	users := seedUsers(t, db, 1)

	trip := &models.Trip{Name: "Kyoto in autumn", CreatorID: users[0].ID}
	require.NoError(t, repo.Create(trip))

	m, err := repo.GetMember(trip.ID, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripRoleCreator, m.Role)
	assert.WithinDuration(t, time.Now(), m.JoinedAt, 5*time.Second)
}

func TestTripRepository_Membership(t *testing.T) {
	db := openTestDB(t)
	repo := NewTripRepository(db)
	users := seedUsers(t, db, 3)

	trip := &models.Trip{Name: "Road trip", CreatorID: users[0].ID}
	require.NoError(t, repo.Create(trip))
	require.NoError(t, repo.AddMember(&models.TripMember{
		TripID: trip.ID, UserID: users[1].ID, Role: domain.TripRoleMember, JoinedAt: time.Now(),
	}))

	t.Run("non member lookup fails", func(t *testing.T) {
		_, err := repo.GetMember(trip.ID, users[2].ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("member user ids covers everyone", func(t *testing.T) {
		ids, err := repo.MemberUserIDs(trip.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{users[0].ID, users[1].ID}, ids)
	})

	t.Run("list by user only shows joined trips", func(t *testing.T) {
		trips, err := repo.ListByUserID(users[1].ID)
		require.NoError(t, err)
		require.Len(t, trips, 1)
		assert.Equal(t, trip.ID, trips[0].ID)

		trips, err = repo.ListByUserID(users[2].ID)
		require.NoError(t, err)
		assert.Empty(t, trips)
	})

	t.Run("role promotion sticks", func(t *testing.T) {
		require.NoError(t, repo.UpdateMemberRole(trip.ID, users[1].ID, domain.TripRoleAdmin))
		m, err := repo.GetMember(trip.ID, users[1].ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TripRoleAdmin, m.Role)
	})

	t.Run("removed member loses access", func(t *testing.T) {
		require.NoError(t, repo.RemoveMember(trip.ID, users[1].ID))
		_, err := repo.GetMember(trip.ID, users[1].ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
