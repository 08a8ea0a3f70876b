package assistant

import (
	"kisan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for the farming assistant chat.
type Handlers struct {
	Client GeminiClient
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat POST /api/gemini-chat — forward a user message to the model.
func (h *Handlers) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Message is required", fiber.StatusBadRequest, nil)
	}
	if req.Message == "" {
		return response.Error(c, "Message is required", fiber.StatusBadRequest, nil)
	}

	text, err := h.Client.Generate(c.UserContext(), req.Message)
	if err != nil {
		log.Error().Err(err).Msg("assistant chat failed")
		return response.Error(c, "Assistant is temporarily unavailable", fiber.StatusServiceUnavailable, nil)
	}
	return c.JSON(fiber.Map{"response": text})
}
