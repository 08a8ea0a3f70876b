package chats

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

func chatError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrChatNotFound) {
		return response.NotFound(c, err.Error())
	}
	if errors.Is(err, ErrNotParticipant) {
		return response.Forbidden(c, err.Error())
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// GetChats GET /api/v1/chats/get-chats
func (h *Handlers) GetChats(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	chats, err := h.Service.ListThreads(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Failed to fetch chats", 500, nil)
	}
	return response.Success(c, "Chats fetched", chats, nil)
}

// GetChatByListing GET /api/v1/chats/get-chat/:listing_id
func (h *Handlers) GetChatByListing(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, nil)
	}
	chat, err := h.Service.GetThreadByListing(c.Context(), listingID, actor.UserID)
	if err != nil {
		return chatError(c, err)
	}
	return response.Success(c, "Chat fetched", chat, nil)
}

// GetMessages GET /api/v1/chats/:chat_id/messages?limit=50
func (h *Handlers) GetMessages(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	chatID, err := uuid.Parse(c.Params("chat_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for chat_id", 400, nil)
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	messages, err := h.Service.Messages(c.Context(), chatID, actor.UserID, limit)
	if err != nil {
		return chatError(c, err)
	}
	return response.Success(c, "Messages fetched", messages, nil)
}

// SendMessage POST /api/v1/chats/:chat_id/messages
func (h *Handlers) SendMessage(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	chatID, err := uuid.Parse(c.Params("chat_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for chat_id", 400, nil)
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil || body.Content == "" {
		return response.Error(c, "Message content is required", 400, nil)
	}
	message, err := h.Service.SendMessage(c.Context(), chatID, actor.UserID, actor.Fullname, body.Content)
	if err != nil {
		return chatError(c, err)
	}
	return response.SuccessCreated(c, "Message sent", message, nil)
}

// MarkRead PATCH /api/v1/chats/:chat_id/mark-read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	chatID, err := uuid.Parse(c.Params("chat_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for chat_id", 400, nil)
	}
	if err := h.Service.MarkRead(c.Context(), chatID, actor.UserID); err != nil {
		return chatError(c, err)
	}
	return response.Success(c, "Messages marked read", nil, nil)
}
