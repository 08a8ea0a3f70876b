package listings

import "errors"

var (
	ErrInvalidDuration = errors.New("Bidding duration must be at least 1 minute")
	ErrListingNotFound = errors.New("Listing not found")
)
