package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoldWinner marks a lot as the winner of a program for one calendar month.
// A program has at most one winner per (month, year).
type GoldWinner struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	ProgramID   uint                `gorm:"not null;uniqueIndex:idx_gold_winners_slot,priority:1" json:"programId"`
	LotID       uint                `gorm:"not null;index" json:"lotId"`
	Month       int                 `gorm:"not null;uniqueIndex:idx_gold_winners_slot,priority:2" json:"month"`
	Year        int                 `gorm:"not null;uniqueIndex:idx_gold_winners_slot,priority:3" json:"year"`
	PrizeAmount decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"prizeAmount"`
	Lot         *GoldLot            `gorm:"foreignKey:LotID" json:"lot,omitempty"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the GoldWinner model
func (GoldWinner) TableName() string {
	return "gold_winners"
}
