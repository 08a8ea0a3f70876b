package trends

import (
	"errors"
	"strconv"

	"kisan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for market trend endpoints.
type Handlers struct {
	Service *Service
}

// MarketTrends GET /api/market-trends?commodity=&state=&district=&market=&days=
func (h *Handlers) MarketTrends(c *fiber.Ctx) error {
	commodity := c.Query("commodity")
	if commodity == "" {
		return response.Error(c, "Commodity is required", fiber.StatusBadRequest, nil)
	}
	days, _ := strconv.Atoi(c.Query("days"))

	result, err := h.Service.MarketTrends(c.UserContext(), TrendsInput{
		Commodity: commodity,
		State:     c.Query("state"),
		District:  c.Query("district"),
		Market:    c.Query("market"),
		Days:      days,
	})
	if err != nil {
		if errors.Is(err, ErrUpstreamUnavailable) {
			return response.Error(c, err.Error(), fiber.StatusServiceUnavailable, nil)
		}
		log.Error().Err(err).Str("commodity", commodity).Msg("market trends failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return c.JSON(result)
}
