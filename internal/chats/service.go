package chats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kisan-backend/internal/auction"
	"kisan-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrChatNotFound   = errors.New("Chat not found")
	ErrNotParticipant = errors.New("You are not a participant of this chat")
)

type Service struct {
	DB       *gorm.DB
	Notifier auction.Notifier
}

// ChatView is a thread with the counterparty's name resolved for display.
type ChatView struct {
	models.Chat
	OtherUserID   uuid.UUID `json:"other_user_id"`
	OtherUserName string    `json:"other_user_name"`
}

// ListThreads returns all threads the user participates in, most recently
// updated first.
func (s *Service) ListThreads(ctx context.Context, userID uuid.UUID) ([]ChatView, error) {
	var chats []models.Chat
	if err := s.DB.WithContext(ctx).
		Where("farmer_id = ? OR wholesaler_id = ?", userID, userID).
		Order("last_updated DESC").Find(&chats).Error; err != nil {
		return nil, err
	}

	views := make([]ChatView, 0, len(chats))
	for _, chat := range chats {
		otherID := chat.FarmerID
		if otherID == userID {
			otherID = chat.WholesalerID
		}
		view := ChatView{Chat: chat, OtherUserID: otherID}
		var other models.User
		if err := s.DB.WithContext(ctx).Where("user_id = ?", otherID).First(&other).Error; err == nil {
			view.OtherUserName = other.Fullname
		}
		views = append(views, view)
	}
	return views, nil
}

// GetThreadByListing loads the thread of a resolved listing for one of its
// participants.
func (s *Service) GetThreadByListing(ctx context.Context, listingID, userID uuid.UUID) (*ChatView, error) {
	var chat models.Chat
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&chat).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if chat.FarmerID != userID && chat.WholesalerID != userID {
		return nil, ErrNotParticipant
	}
	otherID := chat.FarmerID
	if otherID == userID {
		otherID = chat.WholesalerID
	}
	view := &ChatView{Chat: chat, OtherUserID: otherID}
	var other models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", otherID).First(&other).Error; err == nil {
		view.OtherUserName = other.Fullname
	}
	return view, nil
}

// Messages returns a thread's messages oldest first, capped at limit.
func (s *Service) Messages(ctx context.Context, chatID, userID uuid.UUID, limit int) ([]models.Message, error) {
	chat, err := s.loadParticipantChat(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	var messages []models.Message
	if err := s.DB.WithContext(ctx).
		Where("chat_id = ?", chat.ChatID).
		Order("created_at ASC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage appends a message and refreshes the thread preview, then sends
// a best-effort "New Message" notification to the other participant.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, senderName, content string) (*models.Message, error) {
	if content == "" {
		return nil, errors.New("Message content is required")
	}
	chat, err := s.loadParticipantChat(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		ChatID:   chat.ChatID,
		SenderID: senderID,
		Content:  content,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).
			Where("chat_id = ?", chat.ChatID).
			Updates(map[string]interface{}{
				"last_message": content,
				"last_updated": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	recipient := chat.FarmerID
	if recipient == senderID {
		recipient = chat.WholesalerID
	}
	if s.Notifier != nil {
		if senderName == "" {
			senderName = "Someone"
		}
		chatID := chat.ChatID
		msg := fmt.Sprintf("You have a new message from %s.", senderName)
		if err := s.Notifier.Notify(ctx, recipient, "New Message", msg, models.NotificationTypeChat, &chatID); err != nil {
			log.Error().Err(err).Str("chat_id", chatID.String()).Msg("new message notification failed")
		}
	}
	return &message, nil
}

// MarkRead marks all messages from the other participant as read.
func (s *Service) MarkRead(ctx context.Context, chatID, userID uuid.UUID) error {
	chat, err := s.loadParticipantChat(ctx, chatID, userID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chat.ChatID, userID, false).
		Update("is_read", true).Error
}

func (s *Service) loadParticipantChat(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := s.DB.WithContext(ctx).Where("chat_id = ?", chatID).First(&chat).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if chat.FarmerID != userID && chat.WholesalerID != userID {
		return nil, ErrNotParticipant
	}
	return &chat, nil
}
