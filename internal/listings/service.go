package listings

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"kisan-backend/internal/auction"
	"kisan-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateListingInput struct {
	FarmerID               uuid.UUID
	Name                   string
	Category               string
	Quantity               float64
	Unit                   string
	PricePerUnit           float64
	MinimumBid             float64
	FarmingMethod          string
	HarvestDate            time.Time
	ExpiryDate             *time.Time
	Description            string
	PhoneNumber            string
	State                  string
	District               string
	ImageURL               string
	BiddingDurationMinutes int
}

// CreateListing opens a new auction. The bidding window starts now and lasts
// BiddingDurationMinutes; a duration below one minute is rejected before any
// write happens.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	if in.BiddingDurationMinutes < 1 {
		return nil, ErrInvalidDuration
	}
	if in.Quantity <= 0 || math.IsNaN(in.Quantity) {
		return nil, errors.New("Invalid quantity")
	}
	if in.MinimumBid <= 0 || math.IsNaN(in.MinimumBid) {
		return nil, errors.New("Invalid minimum bid")
	}

	listing := &models.Listing{
		FarmerID:               in.FarmerID,
		Name:                   in.Name,
		Category:               in.Category,
		Quantity:               in.Quantity,
		Unit:                   in.Unit,
		PricePerUnit:           in.PricePerUnit,
		MinimumBid:             in.MinimumBid,
		FarmingMethod:          in.FarmingMethod,
		HarvestDate:            in.HarvestDate,
		ExpiryDate:             in.ExpiryDate,
		Description:            in.Description,
		PhoneNumber:            in.PhoneNumber,
		State:                  in.State,
		District:               in.District,
		ImageURL:               in.ImageURL,
		Status:                 models.ListingStatusAvailable,
		BiddingStartTime:       time.Now(),
		BiddingDurationMinutes: in.BiddingDurationMinutes,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		eventData, _ := json.Marshal(map[string]interface{}{
			"minimum_bid":              listing.MinimumBid,
			"bidding_duration_minutes": listing.BiddingDurationMinutes,
		})
		return tx.Create(&models.AuctionEvent{
			ListingID: listing.ListingID,
			EventType: models.AuctionEventListingCreated,
			ActorID:   &in.FarmerID,
			EventData: datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// ListingView is a listing decorated with the derived window state, so every
// caller sees the same OPEN/CLOSED classification the engine gates on.
type ListingView struct {
	models.Listing
	WindowState      auction.WindowState `json:"window_state"`
	BiddingEndTime   time.Time           `json:"bidding_end_time"`
	RemainingSeconds int64               `json:"remaining_seconds"`
}

func toView(l models.Listing, now time.Time) ListingView {
	w := auction.WindowOf(&l)
	return ListingView{
		Listing:          l,
		WindowState:      w.StateAt(now),
		BiddingEndTime:   w.End,
		RemainingSeconds: int64(w.RemainingAt(now).Seconds()),
	}
}

func toViews(ls []models.Listing, now time.Time) []ListingView {
	views := make([]ListingView, 0, len(ls))
	for _, l := range ls {
		views = append(views, toView(l, now))
	}
	return views
}

// GetAllActiveListings returns available listings whose window is still open.
func (s *Service) GetAllActiveListings(ctx context.Context) ([]ListingView, error) {
	var listings []models.Listing
	if err := s.DB.WithContext(ctx).
		Where("status = ?", models.ListingStatusAvailable).
		Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	active := make([]ListingView, 0, len(listings))
	for _, l := range listings {
		if auction.WindowOf(&l).StateAt(now) == auction.WindowOpen {
			active = append(active, toView(l, now))
		}
	}
	return active, nil
}

// GetAwaitingResolution returns the farmer's listings still "available" whose
// window already closed, i.e. auctions waiting for the farmer to pick a
// winner. There is no background sweep that resolves these automatically.
func (s *Service) GetAwaitingResolution(ctx context.Context, farmerID uuid.UUID) ([]ListingView, error) {
	var listings []models.Listing
	if err := s.DB.WithContext(ctx).
		Where("farmer_id = ? AND status = ?", farmerID, models.ListingStatusAvailable).
		Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	waiting := make([]ListingView, 0, len(listings))
	for _, l := range listings {
		if auction.WindowOf(&l).StateAt(now) == auction.WindowClosed {
			waiting = append(waiting, toView(l, now))
		}
	}
	return waiting, nil
}

func (s *Service) GetAllListings(ctx context.Context) ([]ListingView, error) {
	var listings []models.Listing
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return toViews(listings, time.Now()), nil
}

func (s *Service) GetFarmerListings(ctx context.Context, farmerID uuid.UUID) ([]ListingView, error) {
	var listings []models.Listing
	if err := s.DB.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return toViews(listings, time.Now()), nil
}

func (s *Service) GetSoldListings(ctx context.Context, farmerID uuid.UUID) ([]ListingView, error) {
	var listings []models.Listing
	if err := s.DB.WithContext(ctx).
		Where("farmer_id = ? AND status = ?", farmerID, models.ListingStatusSold).
		Order("updated_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return toViews(listings, time.Now()), nil
}

func (s *Service) GetListingByID(ctx context.Context, listingID uuid.UUID) (*ListingView, error) {
	var listing models.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	view := toView(listing, time.Now())
	return &view, nil
}

// GetListingEvents returns the audit trail of one listing, oldest first.
func (s *Service) GetListingEvents(ctx context.Context, listingID uuid.UUID) ([]models.AuctionEvent, error) {
	var events []models.AuctionEvent
	if err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
