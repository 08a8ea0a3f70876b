package middleware

import (
	"kisan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// Actor is the authenticated session user as seen by handlers.
type Actor struct {
	UserID   uuid.UUID
	Fullname string
	UserType string
}

// RequireAuth ensures a user is in the session. Returns 401 with standard
// error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// RequireUserType restricts a route to one side of the marketplace
// (farmer-only or wholesaler-only actions).
func RequireUserType(userType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if actor.UserType != userType {
			return response.Forbidden(c, "This action requires a "+userType+" account")
		}
		return c.Next()
	}
}

// GetUser returns the raw session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// GetActor parses the session user map into an Actor. Returns nil when not
// logged in or the session shape is unusable.
func GetActor(c *fiber.Ctx) *Actor {
	u := c.Locals(userLocal)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	rawID, _ := m["user_id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil
	}
	fullname, _ := m["fullname"].(string)
	userType, _ := m["user_type"].(string)
	return &Actor{UserID: id, Fullname: fullname, UserType: userType}
}
