package users

import (
	"context"
	"errors"

	"kisan-backend/internal/models"
	"kisan-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("User not found")

type Service struct {
	DB *gorm.DB
}

// PublicUser is the directory shape other modules and the frontend see.
type PublicUser struct {
	UserID      uuid.UUID `json:"user_id"`
	Fullname    string    `json:"fullname"`
	UserType    string    `json:"user_type"`
	PhoneNumber string    `json:"phone_number"`
	State       string    `json:"state"`
	District    string    `json:"district"`
}

// GetUser is the directory lookup: name, role and contact details for display
// and actor verification.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*PublicUser, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &PublicUser{
		UserID:      u.UserID,
		Fullname:    u.Fullname,
		UserType:    u.UserType,
		PhoneNumber: u.PhoneNumber,
		State:       u.State,
		District:    u.District,
	}, nil
}

type UpdateProfileInput struct {
	Fullname    *string
	PhoneNumber *string
	State       *string
	District    *string
}

// UpdateProfile updates the caller's own directory record.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*PublicUser, error) {
	updates := map[string]interface{}{}
	if in.Fullname != nil {
		if !validation.IsValidFullname(*in.Fullname) {
			return nil, errors.New("Invalid fullname")
		}
		updates["fullname"] = *in.Fullname
	}
	if in.PhoneNumber != nil {
		if !validation.IsValidPhone(*in.PhoneNumber) {
			return nil, errors.New("Invalid phone number")
		}
		updates["phone_number"] = *in.PhoneNumber
	}
	if in.State != nil {
		updates["state"] = *in.State
	}
	if in.District != nil {
		updates["district"] = *in.District
	}
	if len(updates) == 0 {
		return nil, errors.New("No valid changes provided")
	}

	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.GetUser(ctx, userID)
}
