package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense is money paid by one member to be split among others.
// Amounts are integer cents to avoid float rounding in balances.
type Expense struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TripID      uint           `gorm:"not null;index" json:"trip_id"`
	PaidByID    uint           `gorm:"not null;index" json:"paid_by_id"`
	Description string         `gorm:"size:255;not null" json:"description"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Category    string         `gorm:"size:20;not null" json:"category"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Trip   Trip           `gorm:"foreignKey:TripID" json:"-"`
	PaidBy User           `gorm:"foreignKey:PaidByID" json:"-"`
	Splits []ExpenseSplit `gorm:"foreignKey:ExpenseID" json:"splits,omitempty"`
}

func (Expense) TableName() string {
	return "expenses"
}

type ExpenseSplit struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ExpenseID   uint       `gorm:"not null;index" json:"expense_id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	AmountCents int64      `gorm:"not null" json:"amount_cents"`
	Settled     bool       `gorm:"default:false" json:"settled"`
	SettledAt   *time.Time `json:"settled_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ExpenseSplit) TableName() string {
	return "expense_splits"
}
