package models

import (
	"encoding/json"
	"time"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/datauri"
)

// Service is a community service listing (clinic, legal help, etc.).
type Service struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Location      string    `gorm:"type:varchar(255)" json:"location"`
	StartingTime  string    `gorm:"type:varchar(20)" json:"startingTime"`
	StoppingTime  string    `gorm:"type:varchar(20)" json:"stoppingTime"`
	AvailableDays string    `gorm:"type:varchar(255)" json:"availableDays"`
	PhoneNumber   string    `gorm:"type:varchar(30)" json:"phoneNumber"`
	Image         []byte    `json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

func (s Service) MarshalJSON() ([]byte, error) {
	type alias Service
	return json.Marshal(struct {
		alias
		Image *string `json:"image"`
	}{alias(s), datauri.Encode(s.Image)})
}
