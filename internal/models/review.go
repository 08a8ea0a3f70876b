package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a post-sale rating left by one party of a resolved transaction
// about the other. One review per (reviewer, listing) pair.
type Review struct {
	ReviewID     uuid.UUID      `gorm:"column:review_id;type:uuid;primaryKey" json:"review_id"`
	ListingID    uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	ReviewerID   uuid.UUID      `gorm:"column:reviewer_id;type:uuid;not null;index" json:"reviewer_id"`
	TargetUserID uuid.UUID      `gorm:"column:target_user_id;type:uuid;not null;index" json:"target_user_id"`
	Rating       int            `gorm:"column:rating;not null" json:"rating"`
	Comment      string         `gorm:"column:comment" json:"comment"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Review) TableName() string {
	return "Reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ReviewID == uuid.Nil {
		r.ReviewID = uuid.New()
	}
	return nil
}
