package notifications

import (
	"context"
	"errors"

	"kisan-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("Notification not found")

type Service struct {
	DB *gorm.DB
}

// Notify creates a notification record for a user. Implements the Notifier
// interface consumed by the bid/resolution/chat/review flows; those callers
// treat a failure here as log-and-continue.
func (s *Service) Notify(ctx context.Context, recipientID uuid.UUID, title, message, ntype string, relatedID *uuid.UUID) error {
	return s.DB.WithContext(ctx).Create(&models.Notification{
		UserID:    recipientID,
		Title:     title,
		Message:   message,
		Type:      ntype,
		RelatedID: relatedID,
	}).Error
}

// ListForUser returns the user's notifications, newest first, capped at limit.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []models.Notification
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).Count(&count).Error
	return count, err
}

// MarkRead flips one notification's read flag. Scoped to the owner so one
// user cannot mark another user's notifications.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
