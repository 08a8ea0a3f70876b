package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bid statuses. A (listing, bidder) pair may hold at most one pending bid;
// once the listing is sold exactly one bid is accepted and the rest rejected.
const (
	BidStatusPending  = "pending"
	BidStatusAccepted = "accepted"
	BidStatusRejected = "rejected"
)

// Bid is one wholesaler's binding offer on one listing.
type Bid struct {
	BidID     uuid.UUID      `gorm:"column:bid_id;type:uuid;primaryKey" json:"bid_id"`
	ListingID uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	BidderID  uuid.UUID      `gorm:"column:bidder_id;type:uuid;not null;index" json:"bidder_id"`
	Amount    float64        `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Status    string         `gorm:"column:status;type:varchar(20);default:'pending'" json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Bid) TableName() string {
	return "Bids"
}

func (b *Bid) BeforeCreate(tx *gorm.DB) error {
	if b.BidID == uuid.Nil {
		b.BidID = uuid.New()
	}
	return nil
}
