package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

// Purchase rows are append-only; there is no update or delete path.
type Purchase struct {
	ID          string    `gorm:"primaryKey"`
	UserID      string    `gorm:"not null;index"`
	RaffleID    string    `gorm:"not null;index"`
	TicketIDs   string    `gorm:"not null"` // comma-joined ticket ids
	TotalAmount float64   `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

type PurchaseDAO struct {
	db *gorm.DB
}

func NewPurchaseDAO(db *gorm.DB) *PurchaseDAO {
	return &PurchaseDAO{
		db: db,
	}
}

func (d *PurchaseDAO) FindByID(ctx context.Context, id string) (Purchase, error) {
	var purchase Purchase

	result := d.db.WithContext(ctx).First(&purchase, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Purchase{}, ErrPurchaseNotFound
		}

		return Purchase{}, result.Error
	}

	return purchase, nil
}

// FindByUserID returns the user's purchases, newest first.
func (d *PurchaseDAO) FindByUserID(ctx context.Context, userID string) ([]Purchase, error) {
	var purchases []Purchase

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases)
	if result.Error != nil {
		return nil, result.Error
	}

	return purchases, nil
}

func (d *PurchaseDAO) FindAll(ctx context.Context) ([]Purchase, error) {
	var purchases []Purchase

	result := d.db.WithContext(ctx).Order("created_at ASC").Find(&purchases)
	if result.Error != nil {
		return nil, result.Error
	}

	return purchases, nil
}

func (d *PurchaseDAO) SumTotalAmount(ctx context.Context) (float64, error) {
	var total *float64

	result := d.db.WithContext(ctx).Model(&Purchase{}).Select("SUM(total_amount)").Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}
	if total == nil {
		return 0, nil
	}

	return *total, nil
}
