package bids

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"kisan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBidApp(t *testing.T, actorID uuid.UUID) (*fiber.App, *gorm.DB) {
	svc, db, _ := setupBidsTest(t)
	h := &Handlers{Service: svc}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":   actorID.String(),
			"fullname":  "Anil Traders",
			"user_type": models.UserTypeWholesaler,
		})
		return c.Next()
	})
	app.Post("/place-bid", h.PlaceBid)
	app.Get("/get-listing-bids/:listing_id", h.GetListingBids)
	return app, db
}

func TestPlaceBidHandler_Created(t *testing.T) {
	actorID := uuid.New()
	app, db := newBidApp(t, actorID)
	listing, _ := seedOpenListing(t, db)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id": listing.ListingID.String(),
		"amount":     600,
	})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "Bid placed successfully", result["message"])
}

func TestPlaceBidHandler_TooLowIs400(t *testing.T) {
	actorID := uuid.New()
	app, db := newBidApp(t, actorID)
	listing, _ := seedOpenListing(t, db)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id": listing.ListingID.String(),
		"amount":     400,
	})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPlaceBidHandler_ClosedWindowIs409(t *testing.T) {
	actorID := uuid.New()
	app, db := newBidApp(t, actorID)
	listing, _ := seedOpenListing(t, db)
	require.NoError(t, db.Model(&models.Listing{}).
		Where("listing_id = ?", listing.ListingID).
		Update("bidding_start_time", time.Now().Add(-61*time.Minute)).Error)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id": listing.ListingID.String(),
		"amount":     600,
	})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestPlaceBidHandler_InvalidUUID(t *testing.T) {
	app, _ := newBidApp(t, uuid.New())

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id": "not-a-uuid",
		"amount":     600,
	})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetListingBidsHandler_NonSellerIs403(t *testing.T) {
	app, db := newBidApp(t, uuid.New())
	listing, _ := seedOpenListing(t, db)

	req := httptest.NewRequest("GET", "/get-listing-bids/"+listing.ListingID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
