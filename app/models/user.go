package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/datauri"
)

const apiKeyPrefix = "kmcc_"

var apiKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

const (
	GENDER_MALE   = "MALE"
	GENDER_FEMALE = "FEMALE"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Email        string         `gorm:"type:varchar(200);index" json:"email" validate:"omitempty,email,max=200"`
	PhoneNumber  string         `gorm:"type:varchar(30)" json:"phoneNumber" validate:"omitempty,max=30"`
	MemberID     string         `gorm:"type:varchar(50);index" json:"memberId"`
	Gender       string         `gorm:"type:varchar(10)" json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	IqamaNumber  string         `gorm:"type:varchar(50)" json:"iqamaNumber"`
	Area         string         `gorm:"type:varchar(100)" json:"area"`
	District     string         `gorm:"type:varchar(100)" json:"district"`
	ProfileImage []byte         `json:"-"`
	FCMToken     string         `gorm:"type:varchar(255)" json:"-"`
	IsAdmin      bool           `gorm:"default:false" json:"isAdmin"`
	APIKeyHash   string         `gorm:"type:varchar(64);index" json:"-"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// MarshalJSON exposes the profile image as a data URL instead of raw bytes.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return json.Marshal(struct {
		alias
		ProfileImage *string `json:"profileImage"`
	}{alias(u), datauri.Encode(u.ProfileImage)})
}

// IssueAPIKey generates a new raw key, stores its hash on the user and returns
// the raw key. The raw key is not recoverable afterwards.
func (u *User) IssueAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	rawKey := apiKeyPrefix + strings.ToLower(apiKeyEncoding.EncodeToString(b))
	u.APIKeyHash = HashAPIKey(rawKey)
	return rawKey, nil
}

// HashAPIKey returns the hex encoded SHA-256 of a raw API key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}
