package models

import (
	"time"

	"gorm.io/gorm"
)

type Trip struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Destination   string         `gorm:"size:255" json:"destination"`
	StartDate     *time.Time     `json:"start_date"`
	EndDate       *time.Time     `json:"end_date"`
	CoverImageURL string         `gorm:"size:512" json:"cover_image_url"`
	CreatorID     uint           `gorm:"not null;index" json:"creator_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Creator User         `gorm:"foreignKey:CreatorID" json:"-"`
	Members []TripMember `gorm:"foreignKey:TripID" json:"members,omitempty"`
}

func (Trip) TableName() string {
	return "trips"
}

type TripMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TripID   uint      `gorm:"not null;uniqueIndex:idx_trip_user" json:"trip_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_trip_user;index" json:"user_id"`
	Role     string    `gorm:"size:20;not null" json:"role"` // CREATOR | ADMIN | MEMBER
	JoinedAt time.Time `json:"joined_at"`

	Trip Trip `gorm:"foreignKey:TripID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TripMember) TableName() string {
	return "trip_members"
}
