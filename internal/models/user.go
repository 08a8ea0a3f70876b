package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User types for the two sides of the marketplace.
const (
	UserTypeFarmer     = "farmer"
	UserTypeWholesaler = "wholesaler"
)

// User is the directory record for farmers and wholesalers.
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname     string         `gorm:"column:fullname;not null" json:"fullname"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	UserType     string         `gorm:"column:user_type;type:varchar(20);not null" json:"user_type"`
	PhoneNumber  string         `gorm:"column:phone_number" json:"phone_number"`
	State        string         `gorm:"column:state" json:"state"`
	District     string         `gorm:"column:district" json:"district"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
