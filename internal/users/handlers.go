package users

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

// ViewUser GET /api/v1/users/view-user/:user_id
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for user_id", 400, nil)
	}
	user, err := h.Service.GetUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Failed to fetch user", 500, nil)
	}
	return response.Success(c, "User fetched", user, nil)
}

// UpdateProfile PUT /api/v1/users/update-profile
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Fullname    *string `json:"fullname"`
		PhoneNumber *string `json:"phone_number"`
		State       *string `json:"state"`
		District    *string `json:"district"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "No valid changes provided", 400, nil)
	}
	user, err := h.Service.UpdateProfile(c.Context(), actor.UserID, UpdateProfileInput{
		Fullname:    body.Fullname,
		PhoneNumber: body.PhoneNumber,
		State:       body.State,
		District:    body.District,
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Profile updated successfully", user, nil)
}
