package models

import (
	"encoding/json"
	"time"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/datauri"
)

// News represents a news article in the system
type News struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(50)" json:"type"`
	Heading   string    `gorm:"type:varchar(255)" json:"heading" validate:"required,min=3,max=255"`
	Content   string    `gorm:"type:text" json:"content"`
	Author    string    `gorm:"type:varchar(150)" json:"author"`
	Image     []byte    `json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the News model
func (News) TableName() string {
	return "news"
}

func (n News) MarshalJSON() ([]byte, error) {
	type alias News
	return json.Marshal(struct {
		alias
		Image *string `json:"image"`
	}{alias(n), datauri.Encode(n.Image)})
}
