package models

import (
	"time"

	"gorm.io/gorm"
)

// MarkedLocation is a pin on the trip map (restaurant, sight, meeting point).
// Separate lat/lng columns for portability and Haversine queries.
type MarkedLocation struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TripID      uint           `gorm:"not null;index" json:"trip_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Address     string         `gorm:"size:512" json:"address"`
	Latitude    float64        `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude   float64        `gorm:"type:decimal(11,8);not null" json:"longitude"`
	Category    string         `gorm:"size:50" json:"category"`
	Note        string         `gorm:"type:text" json:"note"`
	CreatedByID uint           `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Trip      Trip `gorm:"foreignKey:TripID" json:"-"`
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"-"`
}

func (MarkedLocation) TableName() string {
	return "marked_locations"
}
