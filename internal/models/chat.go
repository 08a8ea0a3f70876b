package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is the post-sale conversation between the farmer and the winning
// wholesaler. One thread per listing, created by the resolution transaction;
// the unique index on listing_id makes thread creation idempotent.
type Chat struct {
	ChatID       uuid.UUID      `gorm:"column:chat_id;type:uuid;primaryKey" json:"chat_id"`
	ListingID    uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;uniqueIndex" json:"listing_id"`
	ProductName  string         `gorm:"column:product_name;not null" json:"product_name"`
	FarmerID     uuid.UUID      `gorm:"column:farmer_id;type:uuid;not null;index" json:"farmer_id"`
	WholesalerID uuid.UUID      `gorm:"column:wholesaler_id;type:uuid;not null;index" json:"wholesaler_id"`
	Amount       float64        `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	LastMessage  string         `gorm:"column:last_message" json:"last_message"`
	LastUpdated  time.Time      `gorm:"column:last_updated" json:"last_updated"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Chat) TableName() string {
	return "Chats"
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ChatID == uuid.Nil {
		c.ChatID = uuid.New()
	}
	return nil
}

// Message is one chat message inside a thread.
type Message struct {
	MessageID uuid.UUID      `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	ChatID    uuid.UUID      `gorm:"column:chat_id;type:uuid;not null;index" json:"chat_id"`
	SenderID  uuid.UUID      `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	Content   string         `gorm:"column:content;not null" json:"content"`
	IsRead    bool           `gorm:"column:is_read;default:false" json:"is_read"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string {
	return "Messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}
