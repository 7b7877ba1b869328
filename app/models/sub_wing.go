package models

import (
	"encoding/json"
	"time"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/datauri"
)

const (
	SUBWING_DEFAULT_BACKGROUND = "#FFFFFF"
	SUBWING_DEFAULT_MAIN       = "#000000"
)

// SubWing is an organisational sub-wing with its own icon and colour scheme.
type SubWing struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(150);not null" json:"name"`
	Description     *string         `gorm:"type:text" json:"description"`
	Icon            []byte          `json:"-"`
	BackgroundColor string          `gorm:"type:varchar(7);not null;default:'#FFFFFF'" json:"backgroundColor"`
	MainColor       string          `gorm:"type:varchar(7);not null;default:'#000000'" json:"mainColor"`
	Members         []SubWingMember `gorm:"foreignKey:SubWingID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the SubWing model
func (SubWing) TableName() string {
	return "sub_wings"
}

// MarshalJSON exposes the SVG icon as a data URL.
func (s SubWing) MarshalJSON() ([]byte, error) {
	type alias SubWing
	return json.Marshal(struct {
		alias
		Icon *string `json:"icon"`
	}{alias(s), datauri.EncodeSVG(s.Icon)})
}

// SubWingMember is an office bearer listed under a sub-wing.
type SubWingMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name"`
	Position  string    `gorm:"type:varchar(150);not null" json:"position"`
	Image     []byte    `json:"-"`
	SubWingID uint      `gorm:"index;not null" json:"subWingId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the SubWingMember model
func (SubWingMember) TableName() string {
	return "sub_wing_members"
}

func (m SubWingMember) MarshalJSON() ([]byte, error) {
	type alias SubWingMember
	return json.Marshal(struct {
		alias
		Image *string `json:"image"`
	}{alias(m), datauri.Encode(m.Image)})
}
