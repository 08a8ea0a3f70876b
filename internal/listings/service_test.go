package listings

import (
	"context"
	"testing"
	"time"

	"kisan-backend/internal/auction"
	"kisan-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupListingsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Listing{}, &models.AuctionEvent{}))
	return &Service{DB: db}, db
}

func validCreateInput(farmerID uuid.UUID) CreateListingInput {
	return CreateListingInput{
		FarmerID:               farmerID,
		Name:                   "Wheat",
		Category:               "Grains",
		Quantity:               500,
		Unit:                   "kg",
		PricePerUnit:           25,
		MinimumBid:             1000,
		HarvestDate:            time.Now().AddDate(0, 0, -3),
		State:                  "Punjab",
		District:               "Ludhiana",
		BiddingDurationMinutes: 120,
	}
}

func TestCreateListing_RejectsInvalidDuration(t *testing.T) {
	svc, db := setupListingsTest(t)

	for _, minutes := range []int{0, -5} {
		in := validCreateInput(uuid.New())
		in.BiddingDurationMinutes = minutes
		_, err := svc.CreateListing(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}

	var count int64
	db.Model(&models.Listing{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateListing_OpensAuctionNow(t *testing.T) {
	svc, db := setupListingsTest(t)
	farmerID := uuid.New()

	before := time.Now()
	listing, err := svc.CreateListing(context.Background(), validCreateInput(farmerID))
	require.NoError(t, err)

	assert.Equal(t, models.ListingStatusAvailable, listing.Status)
	assert.False(t, listing.BiddingStartTime.Before(before))
	assert.Equal(t, 120, listing.BiddingDurationMinutes)
	assert.Nil(t, listing.SoldTo)

	var events int64
	db.Model(&models.AuctionEvent{}).
		Where("listing_id = ? AND event_type = ?", listing.ListingID, models.AuctionEventListingCreated).
		Count(&events)
	assert.Equal(t, int64(1), events)
}

func TestGetAllActiveListings_ExcludesClosedWindows(t *testing.T) {
	svc, db := setupListingsTest(t)

	open := models.Listing{
		FarmerID: uuid.New(), Name: "Open", Category: "Vegetables",
		Quantity: 10, Unit: "kg", PricePerUnit: 10, MinimumBid: 100,
		HarvestDate: time.Now(), State: "S", District: "D",
		Status:           models.ListingStatusAvailable,
		BiddingStartTime: time.Now(), BiddingDurationMinutes: 60,
	}
	expired := open
	expired.Name = "Expired"
	expired.BiddingStartTime = time.Now().Add(-2 * time.Hour)
	sold := open
	sold.Name = "Sold"
	sold.Status = models.ListingStatusSold
	require.NoError(t, db.Create(&open).Error)
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&sold).Error)

	views, err := svc.GetAllActiveListings(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Open", views[0].Name)
	assert.Equal(t, auction.WindowOpen, views[0].WindowState)
	assert.Greater(t, views[0].RemainingSeconds, int64(0))
}

func TestGetAwaitingResolution_OnlyClosedAvailable(t *testing.T) {
	svc, db := setupListingsTest(t)
	farmerID := uuid.New()

	open := models.Listing{
		FarmerID: farmerID, Name: "StillOpen", Category: "Vegetables",
		Quantity: 10, Unit: "kg", PricePerUnit: 10, MinimumBid: 100,
		HarvestDate: time.Now(), State: "S", District: "D",
		Status:           models.ListingStatusAvailable,
		BiddingStartTime: time.Now(), BiddingDurationMinutes: 60,
	}
	waiting := open
	waiting.Name = "Waiting"
	waiting.BiddingStartTime = time.Now().Add(-3 * time.Hour)
	otherFarmer := waiting
	otherFarmer.Name = "NotMine"
	otherFarmer.FarmerID = uuid.New()
	require.NoError(t, db.Create(&open).Error)
	require.NoError(t, db.Create(&waiting).Error)
	require.NoError(t, db.Create(&otherFarmer).Error)

	views, err := svc.GetAwaitingResolution(context.Background(), farmerID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Waiting", views[0].Name)
	assert.Equal(t, auction.WindowClosed, views[0].WindowState)
	assert.Equal(t, int64(0), views[0].RemainingSeconds)
}

func TestGetListingByID_NotFound(t *testing.T) {
	svc, _ := setupListingsTest(t)

	_, err := svc.GetListingByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestGetListingByID_ComputesWindow(t *testing.T) {
	svc, db := setupListingsTest(t)

	start := time.Now().Add(-30 * time.Minute)
	listing := models.Listing{
		FarmerID: uuid.New(), Name: "Rice", Category: "Grains",
		Quantity: 10, Unit: "kg", PricePerUnit: 10, MinimumBid: 100,
		HarvestDate: time.Now(), State: "S", District: "D",
		Status:           models.ListingStatusAvailable,
		BiddingStartTime: start, BiddingDurationMinutes: 60,
	}
	require.NoError(t, db.Create(&listing).Error)

	view, err := svc.GetListingByID(context.Background(), listing.ListingID)
	require.NoError(t, err)
	assert.Equal(t, auction.WindowOpen, view.WindowState)
	assert.WithinDuration(t, start.Add(60*time.Minute), view.BiddingEndTime, time.Second)
}
