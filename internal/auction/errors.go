package auction

import "errors"

var (
	ErrListingNotFound    = errors.New("Listing not found")
	ErrBidNotFound        = errors.New("Bid not found")
	ErrNotOwner           = errors.New("Only the listing's farmer can select a winner")
	ErrAlreadyResolved    = errors.New("This listing has already been sold")
	ErrBidNotPending      = errors.New("The selected bid is no longer pending")
	ErrResolutionConflict = errors.New("The listing was resolved concurrently, please reload and try again")
)
