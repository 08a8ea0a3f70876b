package bids

import "errors"

var (
	ErrListingNotFound     = errors.New("Listing not found")
	ErrAuctionNotOpen      = errors.New("Bidding on this listing has closed")
	ErrBidTooLow           = errors.New("Bid amount is below the minimum bid for this listing")
	ErrDuplicatePendingBid = errors.New("You already have a pending bid on this listing")
	ErrOwnListing          = errors.New("You cannot bid on your own listing")
	ErrNotSeller           = errors.New("Only the listing's farmer can view its bids")
)
