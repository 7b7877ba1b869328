package models

import (
	"time"
)

// GoldProgram is one run of the gold savings lottery.
//
// ActiveLock is 1 while the program is running and NULL afterwards. The unique
// index on it lets the database reject a second active program.
type GoldProgram struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Description string       `gorm:"type:text" json:"description"`
	IsActive    bool         `gorm:"index" json:"isActive"`
	ActiveLock  *uint8       `gorm:"uniqueIndex:idx_gold_programs_active_lock" json:"-"`
	StartDate   time.Time    `json:"startDate"`
	EndDate     *time.Time   `json:"endDate"`
	Lots        []GoldLot    `gorm:"foreignKey:ProgramID" json:"lots,omitempty"`
	Winners     []GoldWinner `gorm:"foreignKey:ProgramID" json:"winners,omitempty"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the GoldProgram model
func (GoldProgram) TableName() string {
	return "gold_programs"
}

// ActiveLockValue is the value ActiveLock holds while a program is running.
func ActiveLockValue() *uint8 {
	v := uint8(1)
	return &v
}
