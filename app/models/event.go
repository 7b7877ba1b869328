package models

import (
	"encoding/json"
	"time"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/datauri"
)

type Event struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	Title         string              `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	EventDate     time.Time           `gorm:"index" json:"eventDate"`
	Place         string              `gorm:"type:varchar(255)" json:"place"`
	Timing        string              `gorm:"type:varchar(100)" json:"timing"`
	Highlights    string              `gorm:"type:text" json:"highlights"`
	EventType     string              `gorm:"type:varchar(100)" json:"eventType"`
	Image         []byte              `json:"-"`
	IsFinished    bool                `gorm:"index" json:"isFinished"`
	Registrations []EventRegistration `gorm:"foreignKey:EventID" json:"-"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}

func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	return json.Marshal(struct {
		alias
		Image *string `json:"image"`
	}{alias(e), datauri.Encode(e.Image)})
}

// EventRegistration links a user to an event. A user registers for an event once.
type EventRegistration struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EventID    uint      `gorm:"not null;uniqueIndex:idx_event_registrations_event_user,priority:1" json:"eventId"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_event_registrations_event_user,priority:2;index" json:"userId"`
	IsAttended bool      `gorm:"default:false" json:"isAttended"`
	Event      *Event    `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the EventRegistration model
func (EventRegistration) TableName() string {
	return "event_registrations"
}
