package app

import (
	"kisan-backend/internal/assistant"
	"kisan-backend/internal/auction"
	"kisan-backend/internal/auth"
	"kisan-backend/internal/bids"
	"kisan-backend/internal/chats"
	"kisan-backend/internal/config"
	"kisan-backend/internal/database"
	"kisan-backend/internal/health"
	"kisan-backend/internal/listings"
	"kisan-backend/internal/middleware"
	"kisan-backend/internal/models"
	"kisan-backend/internal/notifications"
	"kisan-backend/internal/reviews"
	"kisan-backend/internal/trends"
	"kisan-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration.
func CreateApp(cfg *config.Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	// Health (no auth)
	healthHandlers := &health.Handlers{Rdb: rdb, DB: gormPinger(db)}
	app.Get("/health/json", healthHandlers.JSON)

	// Auth (no auth middleware)
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{DB: db, UserFinder: userFinder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Public proxies (no auth; match the frontend's fetch paths)
	assistantHandlers := &assistant.Handlers{
		Client: &assistant.HTTPClient{APIKey: cfg.GeminiAPIKey},
	}
	app.Post("/api/gemini-chat", assistantHandlers.Chat)

	trendsHandlers := &trends.Handlers{
		Service: &trends.Service{Client: &trends.HTTPClient{APIKey: cfg.AgmarknetAPIKey}},
	}
	app.Get("/api/market-trends", trendsHandlers.MarketTrends)

	// Protected modules (auth required)
	if db != nil && rdb != nil {
		notifService := &notifications.Service{DB: db}

		// Users
		userService := &users.Service{DB: db}
		userHandlers := &users.Handlers{Service: userService}
		userGroup := app.Group("/api/v1/users", middleware.RequireAuth())
		userGroup.Get("/view-user/:user_id", userHandlers.ViewUser)
		userGroup.Put("/update-profile", userHandlers.UpdateProfile)

		// Listings
		listingService := &listings.Service{DB: db}
		listingHandlers := &listings.Handlers{Service: listingService}
		listingGroup := app.Group("/api/v1/listings", middleware.RequireAuth())
		listingGroup.Post("/create-listing", middleware.RequireUserType(models.UserTypeFarmer), listingHandlers.CreateListing)
		listingGroup.Get("/get-all-listings", listingHandlers.GetAllListings)
		listingGroup.Get("/get-all-active-listings", listingHandlers.GetAllActiveListings)
		listingGroup.Get("/get-my-listings", middleware.RequireUserType(models.UserTypeFarmer), listingHandlers.GetFarmerListings)
		listingGroup.Get("/get-awaiting-resolution", middleware.RequireUserType(models.UserTypeFarmer), listingHandlers.GetAwaitingResolution)
		listingGroup.Get("/get-sold-listings", listingHandlers.GetSoldListings)
		listingGroup.Get("/get-listing/:listing_id", listingHandlers.GetListingByID)
		listingGroup.Get("/get-listing-events/:listing_id", listingHandlers.GetListingEvents)

		// Bids
		bidService := &bids.Service{DB: db, Notifier: notifService}
		bidHandlers := &bids.Handlers{Service: bidService}
		bidGroup := app.Group("/api/v1/bids", middleware.RequireAuth())
		bidGroup.Post("/place-bid", middleware.RequireUserType(models.UserTypeWholesaler), bidHandlers.PlaceBid)
		bidGroup.Get("/get-listing-bids/:listing_id", bidHandlers.GetListingBids)
		bidGroup.Get("/get-my-bids", middleware.RequireUserType(models.UserTypeWholesaler), bidHandlers.GetMyBids)

		// Auction resolution
		auctionService := &auction.Service{DB: db, Notifier: notifService}
		auctionHandlers := &auction.Handlers{Service: auctionService}
		auctionGroup := app.Group("/api/v1/auction", middleware.RequireAuth())
		auctionGroup.Post("/resolve-winner", middleware.RequireUserType(models.UserTypeFarmer), auctionHandlers.ResolveWinner)

		// Reviews
		reviewService := &reviews.Service{DB: db, Notifier: notifService}
		reviewHandlers := &reviews.Handlers{Service: reviewService}
		reviewGroup := app.Group("/api/v1/reviews", middleware.RequireAuth())
		reviewGroup.Get("/check-eligibility/:listing_id", reviewHandlers.CheckEligibility)
		reviewGroup.Post("/create-review", reviewHandlers.CreateReview)
		reviewGroup.Get("/get-user-reviews/:user_id", reviewHandlers.GetUserReviews)

		// Notifications
		notifHandlers := &notifications.Handlers{Service: notifService}
		notifGroup := app.Group("/api/v1/notifications", middleware.RequireAuth())
		notifGroup.Get("/get-notifications", notifHandlers.GetNotifications)
		notifGroup.Get("/unread-count", notifHandlers.GetUnreadCount)
		notifGroup.Patch("/mark-read/:notification_id", notifHandlers.MarkRead)
		notifGroup.Patch("/mark-all-read", notifHandlers.MarkAllRead)

		// Chats
		chatService := &chats.Service{DB: db, Notifier: notifService}
		chatHandlers := &chats.Handlers{Service: chatService}
		chatGroup := app.Group("/api/v1/chats", middleware.RequireAuth())
		chatGroup.Get("/get-chats", chatHandlers.GetChats)
		chatGroup.Get("/get-chat/:listing_id", chatHandlers.GetChatByListing)
		chatGroup.Get("/:chat_id/messages", chatHandlers.GetMessages)
		chatGroup.Post("/:chat_id/messages", chatHandlers.SendMessage)
		chatGroup.Patch("/:chat_id/mark-read", chatHandlers.MarkRead)
	}

	return app, nil
}

type sqlPinger struct{ db *gorm.DB }

func (p sqlPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func gormPinger(db *gorm.DB) health.DBPinger {
	if db == nil {
		return nil
	}
	return sqlPinger{db: db}
}
