package auction

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

// ResolveWinner POST /api/v1/auction/resolve-winner
func (h *Handlers) ResolveWinner(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		ListingID string `json:"listing_id"`
		BidID     string `json:"bid_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "listing_id and bid_id are required", 400, nil)
	}
	if body.ListingID == "" || body.BidID == "" {
		return response.Error(c, "listing_id and bid_id are required", 400, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, nil)
	}
	bidID, err := uuid.Parse(body.BidID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for bid_id", 400, nil)
	}

	result, err := h.Service.ResolveWinner(c.Context(), ResolveWinnerInput{
		ListingID:    listingID,
		WinningBidID: bidID,
		ActorID:      actor.UserID,
	})
	if err != nil {
		statusMap := []struct {
			target error
			code   int
		}{
			{ErrListingNotFound, 404},
			{ErrBidNotFound, 404},
			{ErrNotOwner, 403},
			{ErrAlreadyResolved, 409},
			{ErrBidNotPending, 409},
			{ErrResolutionConflict, 409},
		}
		for _, m := range statusMap {
			if errors.Is(err, m.target) {
				return response.Error(c, err.Error(), m.code, nil)
			}
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Winner selected successfully", result, nil)
}
