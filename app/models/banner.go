package models

import (
	"time"
)

type Banner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Image     []byte    `json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the Banner model
func (Banner) TableName() string {
	return "banners"
}
