package bids

import (
	"errors"

	"kisan-backend/internal/middleware"
	"kisan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// PlaceBid POST /api/v1/bids/place-bid (wholesaler only)
func (h *Handlers) PlaceBid(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		ListingID string  `json:"listing_id"`
		Amount    float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "listing_id and amount are required", 400, nil)
	}
	if body.ListingID == "" || body.Amount == 0 {
		return response.Error(c, "listing_id and amount are required", 400, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, nil)
	}
	if body.Amount <= 0 {
		return response.Error(c, "Amount must be a positive number", 400, nil)
	}

	bid, err := h.Service.PlaceBid(c.Context(), PlaceBidInput{
		ListingID:  listingID,
		BidderID:   actor.UserID,
		BidderName: actor.Fullname,
		Amount:     body.Amount,
	})
	if err != nil {
		statusMap := []struct {
			target error
			code   int
		}{
			{ErrListingNotFound, 404},
			{ErrAuctionNotOpen, 409},
			{ErrBidTooLow, 400},
			{ErrDuplicatePendingBid, 409},
			{ErrOwnListing, 403},
		}
		for _, m := range statusMap {
			if errors.Is(err, m.target) {
				return response.Error(c, err.Error(), m.code, nil)
			}
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Bid placed successfully", bid, nil)
}

// GetListingBids GET /api/v1/bids/get-listing-bids/:listing_id (farmer only)
func (h *Handlers) GetListingBids(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, nil)
	}

	bids, err := h.Service.ListForListing(c.Context(), listingID, actor.UserID)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			return response.NotFound(c, err.Error())
		}
		if errors.Is(err, ErrNotSeller) {
			return response.Forbidden(c, err.Error())
		}
		return response.Error(c, "Failed to fetch bids", 500, nil)
	}
	return response.Success(c, "Bids fetched", bids, nil)
}

// GetMyBids GET /api/v1/bids/get-my-bids (wholesaler order history)
func (h *Handlers) GetMyBids(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	bids, err := h.Service.ListForBidder(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Failed to fetch bids", 500, nil)
	}
	return response.Success(c, "Bids fetched", bids, nil)
}
