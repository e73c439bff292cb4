package models

import (
	"time"

	"gorm.io/gorm"

	"tripmate/internal/domain"
)

type Poll struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TripID      uint           `gorm:"not null;index" json:"trip_id"`
	Question    string         `gorm:"size:500;not null" json:"question"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // ACTIVE | COMPLETED | TIE
	ExpiresAt   time.Time      `gorm:"not null;index" json:"expires_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	WinnerID    *uint          `json:"winner_id"` // references poll_options; nil while active or on tie
	CreatedByID uint           `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Trip      Trip         `gorm:"foreignKey:TripID" json:"-"`
	CreatedBy User         `gorm:"foreignKey:CreatedByID" json:"-"`
	Options   []PollOption `gorm:"foreignKey:PollID" json:"options,omitempty"`
}

func (Poll) TableName() string {
	return "polls"
}

func (p *Poll) IsActive() bool { return p.Status == domain.PollStatusActive }

type PollOption struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`
	Option string `gorm:"size:255;not null" json:"option"`

	Votes []Vote `gorm:"foreignKey:PollOptionID" json:"votes,omitempty"`
}

func (PollOption) TableName() string {
	return "poll_options"
}

// Vote records one user's choice on a poll. A user gets a single vote
// per poll; changing it updates the row rather than adding another.
type Vote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PollID       uint      `gorm:"not null;uniqueIndex:idx_poll_voter" json:"poll_id"`
	PollOptionID uint      `gorm:"not null;index" json:"poll_option_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_poll_voter" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Vote) TableName() string {
	return "votes"
}
