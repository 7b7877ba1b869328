package models

import (
	"time"
)

// GoldPayment records whether a lot's contribution for a calendar month was paid.
// There is at most one row per (lot, year, month).
type GoldPayment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	LotID     uint       `gorm:"not null;uniqueIndex:idx_gold_payments_slot,priority:1" json:"lotId"`
	Year      int        `gorm:"not null;uniqueIndex:idx_gold_payments_slot,priority:2" json:"year"`
	Month     int        `gorm:"not null;uniqueIndex:idx_gold_payments_slot,priority:3" json:"month"`
	IsPaid    bool       `json:"isPaid"`
	PaidAt    *time.Time `json:"paidAt"`
	Lot       *GoldLot   `gorm:"foreignKey:LotID" json:"lot,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the GoldPayment model
func (GoldPayment) TableName() string {
	return "gold_payments"
}
