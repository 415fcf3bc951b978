package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	RoomID uuid.UUID `json:"roomId"`
	Text   string    `json:"text"`
}

// MessageRef адресует существующее сообщение (delete/undo)
type MessageRef struct {
	MessageID uuid.UUID `json:"messageId"`
}

type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	SenderID  uuid.UUID `json:"senderId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type HistoryMessage struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
}

type HistoryResponse struct {
	RoomID   uuid.UUID        `json:"roomId"`
	Messages []HistoryMessage `json:"messages"`
}

type MessageDeletedResponse struct {
	MessageID uuid.UUID `json:"messageId"`
}

type MessageRestoredResponse struct {
	MessageID uuid.UUID `json:"messageId"`
	Text      string    `json:"text"`
}
