package reviews

import (
	"context"
	"errors"
	"fmt"

	"kisan-backend/internal/auction"
	"kisan-backend/internal/models"
	"kisan-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("Listing not found")
	ErrNotEligible     = errors.New("You can only review a completed transaction you took part in")
	ErrAlreadyReviewed = errors.New("You have already reviewed this transaction")
	ErrInvalidRating   = errors.New("Rating must be between 1 and 5")
)

type Service struct {
	DB       *gorm.DB
	Notifier auction.Notifier
}

// Eligibility says whether a user may review a listing's transaction and who
// the review would target. Only the seller and the resolved buyer of a sold
// listing are eligible.
type Eligibility struct {
	Eligible       bool       `json:"eligible"`
	CounterpartyID *uuid.UUID `json:"counterparty_id"`
	HasReviewed    bool       `json:"has_reviewed"`
}

func (s *Service) CheckEligibility(ctx context.Context, userID, listingID uuid.UUID) (*Eligibility, error) {
	var listing models.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	if listing.Status != models.ListingStatusSold || listing.SoldTo == nil {
		return &Eligibility{}, nil
	}

	var counterparty uuid.UUID
	switch userID {
	case listing.FarmerID:
		counterparty = *listing.SoldTo
	case *listing.SoldTo:
		counterparty = listing.FarmerID
	default:
		return &Eligibility{}, nil
	}

	reviewed, err := s.HasReviewed(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	return &Eligibility{Eligible: true, CounterpartyID: &counterparty, HasReviewed: reviewed}, nil
}

// HasReviewed is an existence check, not a DB uniqueness constraint, so a
// narrow duplicate-review race remains possible between two sessions.
func (s *Service) HasReviewed(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Review{}).
		Where("reviewer_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	return count > 0, err
}

type CreateReviewInput struct {
	ListingID    uuid.UUID
	ReviewerID   uuid.UUID
	ReviewerName string
	Rating       int
	Comment      string
}

// CreateReview records a review after both gates pass (sold + participant,
// not yet reviewed), then sends a best-effort "New Review" notification to the
// counterparty.
func (s *Service) CreateReview(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if !validation.IsValidRating(in.Rating) {
		return nil, ErrInvalidRating
	}
	eligibility, err := s.CheckEligibility(ctx, in.ReviewerID, in.ListingID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, ErrNotEligible
	}
	if eligibility.HasReviewed {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		ListingID:    in.ListingID,
		ReviewerID:   in.ReviewerID,
		TargetUserID: *eligibility.CounterpartyID,
		Rating:       in.Rating,
		Comment:      in.Comment,
	}
	if err := s.DB.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		name := in.ReviewerName
		if name == "" {
			name = "Someone"
		}
		listingID := in.ListingID
		msg := fmt.Sprintf("%s gave you a %d-star review.", name, in.Rating)
		if err := s.Notifier.Notify(ctx, review.TargetUserID, "New Review", msg, models.NotificationTypeReview, &listingID); err != nil {
			log.Error().Err(err).Str("listing_id", listingID.String()).Msg("new review notification failed")
		}
	}
	return review, nil
}

// ListForUser returns reviews received by a user, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 5
	}
	var out []models.Review
	if err := s.DB.WithContext(ctx).
		Where("target_user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AverageRating returns the mean rating received by a user, 0 when unrated.
func (s *Service) AverageRating(ctx context.Context, userID uuid.UUID) (float64, error) {
	var avg *float64
	err := s.DB.WithContext(ctx).Model(&models.Review{}).
		Where("target_user_id = ?", userID).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
