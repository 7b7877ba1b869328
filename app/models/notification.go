package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a stored push message. UserID is nil for global notifications.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    *uint          `gorm:"index" json:"userId"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Body      string         `gorm:"type:text" json:"body" validate:"required"`
	Data      datatypes.JSON `json:"data"`
	IsRead    bool           `gorm:"default:false" json:"isRead"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

