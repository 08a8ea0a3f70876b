package auction

import (
	"context"
	"testing"
	"time"

	"kisan-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	calls []fakeNotification
}

type fakeNotification struct {
	RecipientID uuid.UUID
	Title       string
	Message     string
	Type        string
}

func (f *fakeNotifier) Notify(ctx context.Context, recipientID uuid.UUID, title, message, ntype string, relatedID *uuid.UUID) error {
	f.calls = append(f.calls, fakeNotification{RecipientID: recipientID, Title: title, Message: message, Type: ntype})
	return nil
}

func setupAuctionTest(t *testing.T) (*Service, *gorm.DB, *fakeNotifier) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Listing{}, &models.Bid{},
		&models.Chat{}, &models.Notification{}, &models.AuctionEvent{},
	))
	notifier := &fakeNotifier{}
	return &Service{DB: db, Notifier: notifier}, db, notifier
}

func seedResolutionFixture(t *testing.T, db *gorm.DB) (farmer, wholesalerA, wholesalerB models.User, listing models.Listing, lowBid, highBid models.Bid) {
	suffix := uuid.NewString()[:8]
	farmer = models.User{Fullname: "Ramesh Kumar", Email: "ramesh-" + suffix + "@test.com", UserType: models.UserTypeFarmer}
	wholesalerA = models.User{Fullname: "Anil Traders", Email: "anil-" + suffix + "@test.com", UserType: models.UserTypeWholesaler}
	wholesalerB = models.User{Fullname: "Bharat Mandi", Email: "bharat-" + suffix + "@test.com", UserType: models.UserTypeWholesaler}
	require.NoError(t, db.Create(&farmer).Error)
	require.NoError(t, db.Create(&wholesalerA).Error)
	require.NoError(t, db.Create(&wholesalerB).Error)

	listing = models.Listing{
		FarmerID:               farmer.UserID,
		Name:                   "Tomatoes",
		Category:               "Vegetables",
		Quantity:               100,
		Unit:                   "kg",
		PricePerUnit:           20,
		MinimumBid:             500,
		HarvestDate:            time.Now().AddDate(0, 0, -2),
		State:                  "Maharashtra",
		District:               "Nashik",
		Status:                 models.ListingStatusAvailable,
		BiddingStartTime:       time.Now().Add(-2 * time.Hour),
		BiddingDurationMinutes: 60,
	}
	require.NoError(t, db.Create(&listing).Error)

	lowBid = models.Bid{ListingID: listing.ListingID, BidderID: wholesalerA.UserID, Amount: 600, Status: models.BidStatusPending}
	highBid = models.Bid{ListingID: listing.ListingID, BidderID: wholesalerB.UserID, Amount: 800, Status: models.BidStatusPending}
	require.NoError(t, db.Create(&lowBid).Error)
	require.NoError(t, db.Create(&highBid).Error)
	return
}

func TestResolveWinner_SellsListingAndSettlesBids(t *testing.T) {
	svc, db, notifier := setupAuctionTest(t)
	farmer, _, wholesalerB, listing, lowBid, highBid := seedResolutionFixture(t, db)
	_ = wholesalerB

	result, err := svc.ResolveWinner(context.Background(), ResolveWinnerInput{
		ListingID:    listing.ListingID,
		WinningBidID: highBid.BidID,
		ActorID:      farmer.UserID,
	})
	require.NoError(t, err)

	var got models.Listing
	require.NoError(t, db.Where("listing_id = ?", listing.ListingID).First(&got).Error)
	assert.Equal(t, models.ListingStatusSold, got.Status)
	require.NotNil(t, got.SoldTo)
	assert.Equal(t, highBid.BidderID, *got.SoldTo)
	require.NotNil(t, got.SoldAmount)
	assert.Equal(t, 800.0, *got.SoldAmount)
	require.NotNil(t, got.WinningBidID)
	assert.Equal(t, highBid.BidID, *got.WinningBidID)
	assert.NotNil(t, got.SoldAt)

	var winner, loser models.Bid
	require.NoError(t, db.Where("bid_id = ?", highBid.BidID).First(&winner).Error)
	require.NoError(t, db.Where("bid_id = ?", lowBid.BidID).First(&loser).Error)
	assert.Equal(t, models.BidStatusAccepted, winner.Status)
	assert.Equal(t, models.BidStatusRejected, loser.Status)

	var chat models.Chat
	require.NoError(t, db.Where("listing_id = ?", listing.ListingID).First(&chat).Error)
	assert.Equal(t, farmer.UserID, chat.FarmerID)
	assert.Equal(t, highBid.BidderID, chat.WholesalerID)
	assert.Equal(t, 800.0, chat.Amount)
	assert.Equal(t, chat.ChatID, result.ChatID)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, highBid.BidderID, notifier.calls[0].RecipientID)
	assert.Equal(t, "Ramesh Kumar accepted your bid for Tomatoes.", notifier.calls[0].Message)
	assert.Equal(t, models.NotificationTypeSale, notifier.calls[0].Type)
}

func TestResolveWinner_SecondResolutionFails(t *testing.T) {
	svc, db, _ := setupAuctionTest(t)
	farmer, _, _, listing, lowBid, highBid := seedResolutionFixture(t, db)

	_, err := svc.ResolveWinner(context.Background(), ResolveWinnerInput{
		ListingID:    listing.ListingID,
		WinningBidID: highBid.BidID,
		ActorID:      farmer.UserID,
	})
	require.NoError(t, err)

	// Second resolution must fail without touching any record.
	_, err = svc.ResolveWinner(context.Background(), ResolveWinnerInput{
		ListingID:    listing.ListingID,
		WinningBidID: lowBid.BidID,
		ActorID:      farmer.UserID,
	})
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	var got models.Listing
	require.NoError(t, db.Where("listing_id = ?", listing.ListingID).First(&got).Error)
	require.NotNil(t, got.WinningBidID)
	assert.Equal(t, highBid.BidID, *got.WinningBidID)
	assert.Equal(t, 800.0, *got.SoldAmount)

	var loser models.Bid
	require.NoError(t, db.Where("bid_id = ?", lowBid.BidID).First(&loser).Error)
	assert.Equal(t, models.BidStatusRejected, loser.Status)
}

func TestResolveWinner_NotOwner(t *testing.T) {
	svc, db, _ := setupAuctionTest(t)
	_, wholesalerA, _, listing, _, highBid := seedResolutionFixture(t, db)

	_, err := svc.ResolveWinner(context.Background(), ResolveWinnerInput{
		ListingID:    listing.ListingID,
		WinningBidID: highBid.BidID,
		ActorID:      wholesalerA.UserID,
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestResolveWinner_BidNotPending(t *testing.T) {
	svc, db, _ := setupAuctionTest(t)
	farmer, _, _, listing, lowBid, _ := seedResolutionFixture(t, db)

	require.NoError(t, db.Model(&models.Bid{}).
		Where("bid_id = ?", lowBid.BidID).
		Update("status", models.BidStatusRejected).Error)

	_, err := svc.ResolveWinner(context.Background(), ResolveWinnerInput{
		ListingID:    listing.ListingID,
		WinningBidID: lowBid.BidID,
		ActorID:      farmer.UserID,
	})
	assert.ErrorIs(t, err, ErrBidNotPending)

	var got models.Listing
	require.NoError(t, db.Where("listing_id = ?", listing.ListingID).First(&got).Error)
	assert.Equal(t, models.ListingStatusAvailable, got.Status)
}

func TestResolveWinner_ListingNotFound(t *testing.T) {
	svc, _, _ := setupAuctionTest(t)

	_, err := svc.ResolveWinner(context.Background(), ResolveWinnerInput{
		ListingID:    uuid.New(),
		WinningBidID: uuid.New(),
		ActorID:      uuid.New(),
	})
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestResolveWinner_BidFromAnotherListing(t *testing.T) {
	svc, db, _ := setupAuctionTest(t)
	farmer, _, _, listing, _, _ := seedResolutionFixture(t, db)
	_, _, _, _, _, otherBid := seedResolutionFixture(t, db)

	_, err := svc.ResolveWinner(context.Background(), ResolveWinnerInput{
		ListingID:    listing.ListingID,
		WinningBidID: otherBid.BidID,
		ActorID:      farmer.UserID,
	})
	assert.ErrorIs(t, err, ErrBidNotFound)
}

func TestResolveWinner_WritesAuditEvent(t *testing.T) {
	svc, db, _ := setupAuctionTest(t)
	farmer, _, _, listing, _, highBid := seedResolutionFixture(t, db)

	_, err := svc.ResolveWinner(context.Background(), ResolveWinnerInput{
		ListingID:    listing.ListingID,
		WinningBidID: highBid.BidID,
		ActorID:      farmer.UserID,
	})
	require.NoError(t, err)

	var events []models.AuctionEvent
	require.NoError(t, db.Where("listing_id = ? AND event_type = ?",
		listing.ListingID, models.AuctionEventResolved).Find(&events).Error)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].ActorID)
	assert.Equal(t, farmer.UserID, *events[0].ActorID)
}
