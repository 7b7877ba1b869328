package models

import (
	"encoding/json"
	"time"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/datauri"
)

// Job is a job posting shared with members.
type Job struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyName string    `gorm:"type:varchar(255);not null" json:"companyName"`
	Position    string    `gorm:"type:varchar(255)" json:"position"`
	JobMode     string    `gorm:"type:varchar(50)" json:"jobMode"`
	Salary      string    `gorm:"type:varchar(100)" json:"salary"`
	Place       string    `gorm:"type:varchar(255)" json:"place"`
	Logo        []byte    `json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the Job model
func (Job) TableName() string {
	return "jobs"
}

func (j Job) MarshalJSON() ([]byte, error) {
	type alias Job
	return json.Marshal(struct {
		alias
		Logo *string `json:"logo"`
	}{alias(j), datauri.Encode(j.Logo)})
}
