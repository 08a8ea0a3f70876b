package auction

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"kisan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolveApp(svc *Service, actorID uuid.UUID) *fiber.App {
	h := &Handlers{Service: svc}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":   actorID.String(),
			"fullname":  "Ramesh Kumar",
			"user_type": models.UserTypeFarmer,
		})
		return c.Next()
	})
	app.Post("/resolve-winner", h.ResolveWinner)
	return app
}

func postResolve(t *testing.T, app *fiber.App, listingID, bidID string) int {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"listing_id": listingID, "bid_id": bidID})
	req := httptest.NewRequest("POST", "/resolve-winner", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestResolveWinnerHandler_Success(t *testing.T) {
	svc, db, _ := setupAuctionTest(t)
	farmer, _, _, listing, _, highBid := seedResolutionFixture(t, db)
	app := newResolveApp(svc, farmer.UserID)

	body, _ := json.Marshal(map[string]string{
		"listing_id": listing.ListingID.String(),
		"bid_id":     highBid.BidID.String(),
	})
	req := httptest.NewRequest("POST", "/resolve-winner", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "Winner selected successfully", result["message"])
}

func TestResolveWinnerHandler_SecondCallIs409(t *testing.T) {
	svc, db, _ := setupAuctionTest(t)
	farmer, _, _, listing, lowBid, highBid := seedResolutionFixture(t, db)
	app := newResolveApp(svc, farmer.UserID)

	code := postResolve(t, app, listing.ListingID.String(), highBid.BidID.String())
	require.Equal(t, fiber.StatusOK, code)

	code = postResolve(t, app, listing.ListingID.String(), lowBid.BidID.String())
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestResolveWinnerHandler_NotOwnerIs403(t *testing.T) {
	svc, db, _ := setupAuctionTest(t)
	_, _, _, listing, _, highBid := seedResolutionFixture(t, db)
	app := newResolveApp(svc, uuid.New())

	code := postResolve(t, app, listing.ListingID.String(), highBid.BidID.String())
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestResolveWinnerHandler_MissingBodyIs400(t *testing.T) {
	svc, _, _ := setupAuctionTest(t)
	app := newResolveApp(svc, uuid.New())

	code := postResolve(t, app, "", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}
