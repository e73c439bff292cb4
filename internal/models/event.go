package models

import (
	"time"

	"gorm.io/gorm"
)

// ItineraryEvent is a scheduled activity on a trip's itinerary.
type ItineraryEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TripID      uint           `gorm:"not null;index" json:"trip_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `gorm:"size:255" json:"location"`
	StartsAt    time.Time      `gorm:"not null;index" json:"starts_at"`
	EndsAt      *time.Time     `json:"ends_at"`
	CreatedByID uint           `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Trip      Trip `gorm:"foreignKey:TripID" json:"-"`
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"-"`
}

func (ItineraryEvent) TableName() string {
	return "itinerary_events"
}
