package models

import (
	"time"
)

// GoldLot is a member's ticket in a gold program. A user may hold several.
type GoldLot struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	ProgramID uint          `gorm:"index;not null" json:"programId"`
	Program   *GoldProgram  `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	UserID    uint          `gorm:"index;not null" json:"userId"`
	User      *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Payments  []GoldPayment `gorm:"foreignKey:LotID" json:"payments,omitempty"`
	Winners   []GoldWinner  `gorm:"foreignKey:LotID" json:"winners,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the GoldLot model
func (GoldLot) TableName() string {
	return "gold_lots"
}
