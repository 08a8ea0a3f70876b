package listings

import (
	"errors"
	"time"

	"kisan-backend/internal/middleware"
	"kisan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type createListingBody struct {
	Name                   string  `json:"name"`
	Category               string  `json:"category"`
	Quantity               float64 `json:"quantity"`
	Unit                   string  `json:"unit"`
	PricePerUnit           float64 `json:"price_per_unit"`
	MinimumBid             float64 `json:"minimum_bid"`
	FarmingMethod          string  `json:"farming_method"`
	HarvestDate            string  `json:"harvest_date"`
	ExpiryDate             string  `json:"expiry_date"`
	Description            string  `json:"description"`
	PhoneNumber            string  `json:"phone_number"`
	State                  string  `json:"state"`
	District               string  `json:"district"`
	ImageURL               string  `json:"image_url"`
	BiddingDurationMinutes int     `json:"bidding_duration_minutes"`
}

// CreateListing POST /api/v1/listings/create-listing (farmer only)
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body createListingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.Name == "" || body.Category == "" || body.Unit == "" ||
		body.State == "" || body.District == "" || body.Quantity == 0 ||
		body.MinimumBid == 0 || body.HarvestDate == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	harvestDate, err := time.Parse("2006-01-02", body.HarvestDate)
	if err != nil {
		return response.Error(c, "Invalid harvest_date, expected YYYY-MM-DD", 400, nil)
	}
	var expiryDate *time.Time
	if body.ExpiryDate != "" {
		d, err := time.Parse("2006-01-02", body.ExpiryDate)
		if err != nil {
			return response.Error(c, "Invalid expiry_date, expected YYYY-MM-DD", 400, nil)
		}
		expiryDate = &d
	}

	listing, err := h.Service.CreateListing(c.Context(), CreateListingInput{
		FarmerID:               actor.UserID,
		Name:                   body.Name,
		Category:               body.Category,
		Quantity:               body.Quantity,
		Unit:                   body.Unit,
		PricePerUnit:           body.PricePerUnit,
		MinimumBid:             body.MinimumBid,
		FarmingMethod:          body.FarmingMethod,
		HarvestDate:            harvestDate,
		ExpiryDate:             expiryDate,
		Description:            body.Description,
		PhoneNumber:            body.PhoneNumber,
		State:                  body.State,
		District:               body.District,
		ImageURL:               body.ImageURL,
		BiddingDurationMinutes: body.BiddingDurationMinutes,
	})
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.SuccessCreated(c, "Listing created successfully", listing, nil)
}

// GetAllActiveListings GET /api/v1/listings/get-all-active-listings
func (h *Handlers) GetAllActiveListings(c *fiber.Ctx) error {
	listings, err := h.Service.GetAllActiveListings(c.Context())
	if err != nil {
		return response.Error(c, "Failed to fetch listings", 500, nil)
	}
	return response.Success(c, "Active listings fetched", listings, nil)
}

// GetAllListings GET /api/v1/listings/get-all-listings
func (h *Handlers) GetAllListings(c *fiber.Ctx) error {
	listings, err := h.Service.GetAllListings(c.Context())
	if err != nil {
		return response.Error(c, "Failed to fetch listings", 500, nil)
	}
	return response.Success(c, "Listings fetched", listings, nil)
}

// GetFarmerListings GET /api/v1/listings/get-my-listings
func (h *Handlers) GetFarmerListings(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetFarmerListings(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Failed to fetch listings", 500, nil)
	}
	return response.Success(c, "Farmer listings fetched", listings, nil)
}

// GetAwaitingResolution GET /api/v1/listings/get-awaiting-resolution
func (h *Handlers) GetAwaitingResolution(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetAwaitingResolution(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Failed to fetch listings", 500, nil)
	}
	return response.Success(c, "Listings awaiting resolution fetched", listings, nil)
}

// GetSoldListings GET /api/v1/listings/get-sold-listings
func (h *Handlers) GetSoldListings(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetSoldListings(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Failed to fetch listings", 500, nil)
	}
	return response.Success(c, "Sold listings fetched", listings, nil)
}

// GetListingByID GET /api/v1/listings/get-listing/:listing_id
func (h *Handlers) GetListingByID(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, nil)
	}
	listing, err := h.Service.GetListingByID(c.Context(), listingID)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Failed to fetch listing", 500, nil)
	}
	return response.Success(c, "Listing fetched", listing, nil)
}

// GetListingEvents GET /api/v1/listings/get-listing-events/:listing_id
func (h *Handlers) GetListingEvents(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, nil)
	}
	events, err := h.Service.GetListingEvents(c.Context(), listingID)
	if err != nil {
		return response.Error(c, "Failed to fetch listing events", 500, nil)
	}
	return response.Success(c, "Listing events fetched", events, nil)
}
