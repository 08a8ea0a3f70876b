package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing statuses. There is no persisted "expired" status: whether bidding is
// still open is derived from BiddingStartTime + BiddingDurationMinutes at read
// time (see internal/auction.Window). A listing can therefore be "available"
// while its window is already closed — that combination means "awaiting manual
// resolution by the farmer".
const (
	ListingStatusAvailable = "available"
	ListingStatusSold      = "sold"
)

// Listing is one unit of produce offered for auction by a farmer.
// Status transitions available -> sold exactly once, only via the winner
// resolution transaction.
type Listing struct {
	ListingID              uuid.UUID  `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	FarmerID               uuid.UUID  `gorm:"column:farmer_id;type:uuid;not null;index" json:"farmer_id"`
	Name                   string     `gorm:"column:name;not null" json:"name"`
	Category               string     `gorm:"column:category;not null" json:"category"`
	Quantity               float64    `gorm:"column:quantity;type:decimal(18,2);not null" json:"quantity"`
	Unit                   string     `gorm:"column:unit;not null" json:"unit"`
	PricePerUnit           float64    `gorm:"column:price_per_unit;type:decimal(18,2);not null" json:"price_per_unit"`
	MinimumBid             float64    `gorm:"column:minimum_bid;type:decimal(18,2);not null" json:"minimum_bid"`
	FarmingMethod          string     `gorm:"column:farming_method" json:"farming_method"`
	HarvestDate            time.Time  `gorm:"column:harvest_date;not null" json:"harvest_date"`
	ExpiryDate             *time.Time `gorm:"column:expiry_date" json:"expiry_date"`
	Description            string     `gorm:"column:description" json:"description"`
	PhoneNumber            string     `gorm:"column:phone_number" json:"phone_number"`
	State                  string     `gorm:"column:state;not null" json:"state"`
	District               string     `gorm:"column:district;not null" json:"district"`
	ImageURL               string     `gorm:"column:image_url" json:"image_url"`
	Status                 string     `gorm:"column:status;type:varchar(20);default:'available'" json:"status"`
	BiddingStartTime       time.Time  `gorm:"column:bidding_start_time;not null" json:"bidding_start_time"`
	BiddingDurationMinutes int        `gorm:"column:bidding_duration_minutes;not null" json:"bidding_duration_minutes"`

	// Resolution fields, set only once sold.
	SoldTo       *uuid.UUID `gorm:"column:sold_to;type:uuid" json:"sold_to"`
	SoldAmount   *float64   `gorm:"column:sold_amount;type:decimal(18,2)" json:"sold_amount"`
	WinningBidID *uuid.UUID `gorm:"column:winning_bid_id;type:uuid" json:"winning_bid_id"`
	SoldAt       *time.Time `gorm:"column:sold_at" json:"sold_at"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string {
	return "Listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}
