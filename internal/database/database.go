package database

import (
	"kisan-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Postgres pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
}

// AutoMigrate runs migrations for all marketplace collections.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Bid{},
		&models.Chat{},
		&models.Message{},
		&models.Notification{},
		&models.Review{},
		&models.AuctionEvent{},
	); err != nil {
		return err
	}
	// A bidder holds at most one pending bid per listing. The application
	// re-checks this before inserting, but under READ COMMITTED two
	// concurrent sessions can both pass that check; the partial index makes
	// the second insert fail instead.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_bids_one_pending_per_bidder ON "Bids" (listing_id, bidder_id) WHERE status = 'pending' AND deleted_at IS NULL`).Error
}
