package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Type      string         `gorm:"size:50;not null;index" json:"type"`
	RelatedID *uint          `json:"related_id"` // trip, poll, event... depending on Type
	Title     string         `gorm:"size:255" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	Data      string         `gorm:"type:text" json:"data"` // JSON payload
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ScheduledNotification is a notification to be delivered later. The
// reconciliation job flips IsSent and materializes a Notification row
// once SendAt has passed; a sent row is never delivered again.
type ScheduledNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	RelatedID *uint     `json:"related_id"`
	Title     string    `gorm:"size:255" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Data      string    `gorm:"type:text" json:"data"`
	Channel   string    `gorm:"size:20" json:"channel"` // advisory metadata only
	SendAt    time.Time `gorm:"not null;index" json:"send_at"`
	IsSent    bool      `gorm:"default:false;index" json:"is_sent"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ScheduledNotification) TableName() string {
	return "scheduled_notifications"
}
