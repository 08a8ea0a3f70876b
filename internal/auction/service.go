package auction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kisan-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifier dispatches a notification record. Implementations must be safe to
// call after the resolution transaction commits; failures are logged here and
// never propagated.
type Notifier interface {
	Notify(ctx context.Context, recipientID uuid.UUID, title, message, ntype string, relatedID *uuid.UUID) error
}

type Service struct {
	DB       *gorm.DB
	Notifier Notifier
}

// ResolveWinnerInput names the winning bid for a listing. The actor must be
// the listing's farmer; resolution may happen while the window is still open
// ("end early") or after it closed.
type ResolveWinnerInput struct {
	ListingID    uuid.UUID
	WinningBidID uuid.UUID
	ActorID      uuid.UUID
}

// ResolveWinnerResult is what the handler returns to the caller.
type ResolveWinnerResult struct {
	Listing *models.Listing `json:"listing"`
	ChatID  uuid.UUID       `json:"chat_id"`
}

// ResolveWinner transitions a listing from available to sold atomically with
// all dependent record updates: the winning bid becomes accepted, every other
// pending bid becomes rejected, and the post-sale chat thread is created, all
// in one transaction. The listing update is a conditional write gated on
// status still being "available" so a concurrent resolution loses cleanly
// with ErrResolutionConflict instead of partially applying.
func (s *Service) ResolveWinner(ctx context.Context, in ResolveWinnerInput) (*ResolveWinnerResult, error) {
	var (
		listing models.Listing
		bid     models.Bid
		chat    models.Chat
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", in.ListingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrListingNotFound
			}
			return err
		}
		if listing.FarmerID != in.ActorID {
			return ErrNotOwner
		}
		if listing.Status == models.ListingStatusSold {
			return ErrAlreadyResolved
		}

		if err := tx.Where("bid_id = ? AND listing_id = ?", in.WinningBidID, in.ListingID).First(&bid).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrBidNotFound
			}
			return err
		}
		if bid.Status != models.BidStatusPending {
			return ErrBidNotPending
		}

		now := time.Now()
		res := tx.Model(&models.Listing{}).
			Where("listing_id = ? AND status = ?", in.ListingID, models.ListingStatusAvailable).
			Updates(map[string]interface{}{
				"status":         models.ListingStatusSold,
				"sold_to":        bid.BidderID,
				"sold_amount":    bid.Amount,
				"winning_bid_id": bid.BidID,
				"sold_at":        now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race against another resolution of the same listing.
			return ErrResolutionConflict
		}

		res = tx.Model(&models.Bid{}).
			Where("bid_id = ? AND status = ?", bid.BidID, models.BidStatusPending).
			Update("status", models.BidStatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrResolutionConflict
		}

		if err := tx.Model(&models.Bid{}).
			Where("listing_id = ? AND status = ?", in.ListingID, models.BidStatusPending).
			Update("status", models.BidStatusRejected).Error; err != nil {
			return err
		}

		// One thread per listing; unique listing_id keeps this idempotent.
		chat = models.Chat{
			ListingID:    listing.ListingID,
			ProductName:  listing.Name,
			FarmerID:     listing.FarmerID,
			WholesalerID: bid.BidderID,
			Amount:       bid.Amount,
			LastUpdated:  now,
		}
		if err := tx.Where("listing_id = ?", listing.ListingID).FirstOrCreate(&chat).Error; err != nil {
			return err
		}

		eventData, _ := json.Marshal(map[string]interface{}{
			"winning_bid_id": bid.BidID,
			"sold_to":        bid.BidderID,
			"sold_amount":    bid.Amount,
		})
		if err := tx.Create(&models.AuctionEvent{
			ListingID: listing.ListingID,
			EventType: models.AuctionEventResolved,
			ActorID:   &in.ActorID,
			EventData: datatypes.JSON(eventData),
		}).Error; err != nil {
			return err
		}

		// Reflect the committed state in the returned listing.
		listing.Status = models.ListingStatusSold
		listing.SoldTo = &bid.BidderID
		listing.SoldAmount = &bid.Amount
		listing.WinningBidID = &bid.BidID
		listing.SoldAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyWinner(ctx, &listing, &bid)

	return &ResolveWinnerResult{Listing: &listing, ChatID: chat.ChatID}, nil
}

// notifyWinner sends the "Bid Accepted" notification after commit.
// Best-effort: a dispatch failure never turns a committed resolution into an
// error for the caller.
func (s *Service) notifyWinner(ctx context.Context, listing *models.Listing, bid *models.Bid) {
	if s.Notifier == nil {
		return
	}
	farmerName := "The farmer"
	var farmer models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", listing.FarmerID).First(&farmer).Error; err == nil {
		farmerName = farmer.Fullname
	}
	msg := fmt.Sprintf("%s accepted your bid for %s.", farmerName, listing.Name)
	listingID := listing.ListingID
	if err := s.Notifier.Notify(ctx, bid.BidderID, "Bid Accepted", msg, models.NotificationTypeSale, &listingID); err != nil {
		log.Error().Err(err).Str("listing_id", listingID.String()).Msg("bid accepted notification failed")
	}
}
