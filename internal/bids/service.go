package bids

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kisan-backend/internal/auction"
	"kisan-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Notifier auction.Notifier
}

type PlaceBidInput struct {
	ListingID  uuid.UUID
	BidderID   uuid.UUID
	BidderName string
	Amount     float64
}

// PlaceBid admits a wholesaler's bid on an open listing. Admission runs inside
// one transaction: the listing is re-read and the duplicate-pending check is
// re-run immediately before the insert. Two sessions of the same bidder racing
// past that check are caught by the partial unique index on pending bids; the
// losing insert surfaces as ErrDuplicatePendingBid. The seller notification
// fires after commit and is best-effort.
func (s *Service) PlaceBid(ctx context.Context, in PlaceBidInput) (*models.Bid, error) {
	var (
		bid     models.Bid
		listing models.Listing
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", in.ListingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrListingNotFound
			}
			return err
		}
		if listing.FarmerID == in.BidderID {
			return ErrOwnListing
		}
		if listing.Status == models.ListingStatusSold {
			return ErrAuctionNotOpen
		}
		if auction.WindowOf(&listing).StateAt(time.Now()) == auction.WindowClosed {
			return ErrAuctionNotOpen
		}
		if in.Amount < listing.MinimumBid {
			return ErrBidTooLow
		}

		var existing models.Bid
		err := tx.Where("listing_id = ? AND bidder_id = ? AND status = ?",
			in.ListingID, in.BidderID, models.BidStatusPending).First(&existing).Error
		if err == nil {
			return ErrDuplicatePendingBid
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		bid = models.Bid{
			ListingID: in.ListingID,
			BidderID:  in.BidderID,
			Amount:    in.Amount,
			Status:    models.BidStatusPending,
		}
		if err := tx.Create(&bid).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicatePendingBid
			}
			return err
		}

		eventData, _ := json.Marshal(map[string]interface{}{
			"bid_id": bid.BidID,
			"amount": bid.Amount,
		})
		return tx.Create(&models.AuctionEvent{
			ListingID: in.ListingID,
			EventType: models.AuctionEventBidPlaced,
			ActorID:   &in.BidderID,
			EventData: datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifySeller(ctx, &listing, &bid, in.BidderName)

	return &bid, nil
}

func (s *Service) notifySeller(ctx context.Context, listing *models.Listing, bid *models.Bid, bidderName string) {
	if s.Notifier == nil {
		return
	}
	if bidderName == "" {
		bidderName = "A wholesaler"
	}
	msg := fmt.Sprintf("%s placed a bid of ₹%.0f on %s.", bidderName, bid.Amount, listing.Name)
	listingID := listing.ListingID
	if err := s.Notifier.Notify(ctx, listing.FarmerID, "New Bid Received", msg, models.NotificationTypeBid, &listingID); err != nil {
		log.Error().Err(err).Str("listing_id", listingID.String()).Msg("new bid notification failed")
	}
}

// BidWithBidder joins the bidder's directory record for display.
type BidWithBidder struct {
	models.Bid
	BidderName string `json:"bidder_name"`
}

// ListForListing returns a listing's bids, highest first. Only the listing's
// farmer may see them (sealed-bid: other wholesalers never see rival bids).
func (s *Service) ListForListing(ctx context.Context, listingID, requesterID uuid.UUID) ([]BidWithBidder, error) {
	var listing models.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.FarmerID != requesterID {
		return nil, ErrNotSeller
	}

	var out []BidWithBidder
	err := s.DB.WithContext(ctx).Model(&models.Bid{}).
		Select(`"Bids".*, "Users".fullname AS bidder_name`).
		Joins(`LEFT JOIN "Users" ON "Users".user_id = "Bids".bidder_id`).
		Where(`"Bids".listing_id = ?`, listingID).
		Order(`"Bids".amount DESC`).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BidWithListing joins the listing for a wholesaler's order history.
type BidWithListing struct {
	models.Bid
	ListingName   string `json:"listing_name"`
	ListingStatus string `json:"listing_status"`
}

// ListForBidder returns a wholesaler's own bids, newest first.
func (s *Service) ListForBidder(ctx context.Context, bidderID uuid.UUID) ([]BidWithListing, error) {
	var out []BidWithListing
	err := s.DB.WithContext(ctx).Model(&models.Bid{}).
		Select(`"Bids".*, "Listings".name AS listing_name, "Listings".status AS listing_status`).
		Joins(`LEFT JOIN "Listings" ON "Listings".listing_id = "Bids".listing_id`).
		Where(`"Bids".bidder_id = ?`, bidderID).
		Order(`"Bids".created_at DESC`).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
