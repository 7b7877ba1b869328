package models

import (
	"time"
)

const (
	TRAVEL_STATUS_AVAILABLE     = "AVAILABLE"
	TRAVEL_STATUS_ONBOARD       = "ONBOARD"
	TRAVEL_STATUS_NOT_AVAILABLE = "NOT_AVAILABLE"
)

// Travel is a member's announced flight, used to coordinate parcels and company.
// TravelTime is a zero padded "HH:MM" string.
type Travel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"userId"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FromAirportID uint      `gorm:"not null" json:"fromAirportId"`
	FromAirport   *Airport  `gorm:"foreignKey:FromAirportID" json:"fromAirport,omitempty"`
	ToAirportID   uint      `gorm:"not null" json:"toAirportId"`
	ToAirport     *Airport  `gorm:"foreignKey:ToAirportID" json:"toAirport,omitempty"`
	TravelDate    time.Time `gorm:"index" json:"travelDate"`
	TravelTime    string    `gorm:"type:varchar(5)" json:"travelTime"`
	Status        string    `gorm:"type:varchar(20);default:'AVAILABLE';index" json:"status" validate:"oneof=AVAILABLE ONBOARD NOT_AVAILABLE"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the Travel model
func (Travel) TableName() string {
	return "travels"
}

// IsValidTravelStatus reports whether s is one of the known travel states.
func IsValidTravelStatus(s string) bool {
	switch s {
	case TRAVEL_STATUS_AVAILABLE, TRAVEL_STATUS_ONBOARD, TRAVEL_STATUS_NOT_AVAILABLE:
		return true
	}
	return false
}

type Airport struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Code      string    `gorm:"type:varchar(10);uniqueIndex" json:"code"`
	City      string    `gorm:"type:varchar(100)" json:"city"`
	Country   string    `gorm:"type:varchar(100)" json:"country"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the Airport model
func (Airport) TableName() string {
	return "airports"
}
