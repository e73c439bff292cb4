package models

import (
	"time"
)

type Invite struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TripID    uint       `gorm:"not null;index" json:"trip_id"`
	InviterID uint       `gorm:"not null" json:"inviter_id"`
	Email     string     `gorm:"size:255;not null;index" json:"email"`
	Token     string     `gorm:"uniqueIndex;size:64;not null" json:"token"`
	Status    string     `gorm:"size:20;not null;index" json:"status"` // PENDING | ACCEPTED | DECLINED
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	AnsweredAt *time.Time `json:"answered_at"`
	CreatedAt time.Time  `json:"created_at"`

	Trip    Trip `gorm:"foreignKey:TripID" json:"trip,omitempty"`
	Inviter User `gorm:"foreignKey:InviterID" json:"-"`
}

func (Invite) TableName() string {
	return "invites"
}

func (i *Invite) IsExpired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}
