package notifications

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

// GetNotifications GET /api/v1/notifications/get-notifications?limit=20
func (h *Handlers) GetNotifications(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	items, err := h.Service.ListForUser(c.Context(), actor.UserID, limit)
	if err != nil {
		return response.Error(c, "Failed to fetch notifications", 500, nil)
	}
	return response.Success(c, "Notifications fetched", items, nil)
}

// GetUnreadCount GET /api/v1/notifications/unread-count
func (h *Handlers) GetUnreadCount(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	count, err := h.Service.UnreadCount(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Failed to fetch unread count", 500, nil)
	}
	return response.Success(c, "Unread count fetched", fiber.Map{"count": count}, nil)
}

// MarkRead PATCH /api/v1/notifications/mark-read/:notification_id
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	notificationID, err := uuid.Parse(c.Params("notification_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for notification_id", 400, nil)
	}
	if err := h.Service.MarkRead(c.Context(), notificationID, actor.UserID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Failed to mark notification read", 500, nil)
	}
	return response.Success(c, "Notification marked read", nil, nil)
}

// MarkAllRead PATCH /api/v1/notifications/mark-all-read
func (h *Handlers) MarkAllRead(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.MarkAllRead(c.Context(), actor.UserID); err != nil {
		return response.Error(c, "Failed to mark notifications read", 500, nil)
	}
	return response.Success(c, "All notifications marked read", nil, nil)
}
