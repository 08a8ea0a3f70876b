package health

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb *redis.Client
	DB  DBPinger
}

// JSON GET /health/json — service status plus dependency pings.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := Collect(context.Background(), h.Rdb, h.DB)
	return c.JSON(map[string]interface{}{
		"service":      "kisan-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"dependencies": result.Dependencies,
	})
}
