package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification type tags (drive frontend navigation).
const (
	NotificationTypeBid    = "bid"
	NotificationTypeSale   = "sale"
	NotificationTypeChat   = "chat"
	NotificationTypeReview = "review"
)

// Notification is a one-way signal to a user about a domain event.
// Only the Read flag is ever mutated after creation.
type Notification struct {
	NotificationID uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Message        string         `gorm:"column:message;not null" json:"message"`
	Type           string         `gorm:"column:type;type:varchar(20);not null" json:"type"`
	RelatedID      *uuid.UUID     `gorm:"column:related_id;type:uuid" json:"related_id"`
	Read           bool           `gorm:"column:read;default:false" json:"read"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Notification) TableName() string {
	return "Notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
