package reviews

import (
	"errors"
	"strconv"

	"kisan-backend/internal/middleware"
	"kisan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// CheckEligibility GET /api/v1/reviews/check-eligibility/:listing_id
func (h *Handlers) CheckEligibility(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, nil)
	}
	eligibility, err := h.Service.CheckEligibility(c.Context(), actor.UserID, listingID)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Failed to check review eligibility", 500, nil)
	}
	return response.Success(c, "Review eligibility checked", eligibility, nil)
}

// CreateReview POST /api/v1/reviews/create-review
func (h *Handlers) CreateReview(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		ListingID string `json:"listing_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "listing_id and rating are required", 400, nil)
	}
	if body.ListingID == "" || body.Rating == 0 {
		return response.Error(c, "listing_id and rating are required", 400, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, nil)
	}

	review, err := h.Service.CreateReview(c.Context(), CreateReviewInput{
		ListingID:    listingID,
		ReviewerID:   actor.UserID,
		ReviewerName: actor.Fullname,
		Rating:       body.Rating,
		Comment:      body.Comment,
	})
	if err != nil {
		statusMap := []struct {
			target error
			code   int
		}{
			{ErrListingNotFound, 404},
			{ErrInvalidRating, 400},
			{ErrNotEligible, 403},
			{ErrAlreadyReviewed, 409},
		}
		for _, m := range statusMap {
			if errors.Is(err, m.target) {
				return response.Error(c, err.Error(), m.code, nil)
			}
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Review created successfully", review, nil)
}

// GetUserReviews GET /api/v1/reviews/get-user-reviews/:user_id?limit=5
func (h *Handlers) GetUserReviews(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for user_id", 400, nil)
	}
	limit, _ := strconv.Atoi(c.Query("limit", "5"))
	items, err := h.Service.ListForUser(c.Context(), userID, limit)
	if err != nil {
		return response.Error(c, "Failed to fetch reviews", 500, nil)
	}
	avg, err := h.Service.AverageRating(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Failed to fetch reviews", 500, nil)
	}
	return response.Success(c, "Reviews fetched", fiber.Map{
		"reviews":        items,
		"average_rating": avg,
	}, nil)
}
