package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType определяет типы событий протокола
type EventType string

const (
	// Комнаты
	EventRoomCreate  EventType = "room-create"
	EventRoomCreated EventType = "room-created"
	EventRoomJoin    EventType = "room-join"
	EventRoomJoined  EventType = "room-joined"

	// Сообщения
	EventSendMessage EventType = "send-message"
	// Имя события сохраняет опечатку исходного протокола,
	// существующие клиенты подписаны именно на него.
	EventReceiveMessage  EventType = "recive-message"
	EventMessageHistory  EventType = "message-history"
	EventDeleteMessage   EventType = "delete-message"
	EventMessageDeleted  EventType = "message-deleted"
	EventUndoMessage     EventType = "undo-message"
	EventMessageRestored EventType = "message-restored"

	// Сигналинг звонков
	EventCallInitiate EventType = "call-initiate"
	EventCallOffer    EventType = "call-offer"
	EventCallAnswer   EventType = "call-answer"
	EventIceCandidate EventType = "ice-candidate"
	EventCallEnd      EventType = "call-end"

	EventError EventType = "error"
)

// Event — конверт для всех событий в обе стороны. SenderID и SenderName
// проставляются сервером, значения от клиента игнорируются.
type Event struct {
	Type       EventType       `json:"type"`
	Data       json.RawMessage `json:"data,omitempty"`
	SenderID   uuid.UUID       `json:"senderId,omitempty"`
	SenderName string          `json:"senderName,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewEvent собирает событие с сериализованным payload
func NewEvent(t EventType, data interface{}) (*Event, error) {
	evt := &Event{
		Type:      t,
		Timestamp: time.Now(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		evt.Data = raw
	}
	return evt, nil
}

func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}
