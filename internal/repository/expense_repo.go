package repository

import (
	"time"

	"tripmate/internal/models"

	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts the expense and its splits in one transaction.
func (r *ExpenseRepository) Create(e *models.Expense, splits []models.ExpenseSplit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		for i := range splits {
			splits[i].ExpenseID = e.ID
			if err := tx.Create(&splits[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ExpenseRepository) GetByID(id uint) (*models.Expense, error) {
	var e models.Expense
	if err := r.db.Preload("Splits").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) ListByTripID(tripID uint) ([]models.Expense, error) {
	var list []models.Expense
	err := r.db.Preload("Splits").Where("trip_id = ?", tripID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ExpenseRepository) SettleSplit(splitID uint) error {
	now := time.Now()
	return r.db.Model(&models.ExpenseSplit{}).Where("id = ?", splitID).Updates(map[string]interface{}{
		"settled":    true,
		"settled_at": now,
	}).Error
}

func (r *ExpenseRepository) GetSplit(splitID uint) (*models.ExpenseSplit, error) {
	var s models.ExpenseSplit
	if err := r.db.First(&s, splitID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ExpenseRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", id).Delete(&models.ExpenseSplit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Expense{}, id).Error
	})
}
