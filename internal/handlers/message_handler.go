package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chatcall/internal/database"
	"chatcall/internal/handlers/dto"
	"chatcall/internal/models"
	ws "chatcall/internal/websocket"
)

// DefaultHistoryLimit ограничивает размер реплея истории
const DefaultHistoryLimit = 50

type MessageHandler struct {
	db           *database.Database
	hub          *ws.Hub
	historyLimit int
}

func NewMessageHandler(db *database.Database, hub *ws.Hub, historyLimit int) *MessageHandler {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &MessageHandler{db: db, hub: hub, historyLimit: historyLimit}
}

// Send сохраняет сообщение и рассылает его группе комнаты, включая
// отправителя. Членство проверяется по хранилищу, а не по подписке:
// подписка эфемерна и не является источником истины.
func (h *MessageHandler) Send(client *ws.Client, evt *ws.Event) error {
	var req dto.SendMessageRequest
	if err := json.Unmarshal(evt.Data, &req); err != nil {
		return ws.ErrInvalidPayload
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return ws.ErrEmptyMessage
	}
	if req.RoomID == uuid.Nil {
		return ws.ErrInvalidPayload
	}

	member, err := h.db.IsMember(req.RoomID, client.UserID)
	if err != nil {
		log.Printf("Failed to check membership of %s in %s: %v", client.UserID, req.RoomID, err)
		return ws.ErrStore
	}
	if !member {
		return ws.ErrNotRoomMember
	}

	message := &models.Message{
		RoomID:    req.RoomID,
		SenderID:  client.UserID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := h.db.SaveMessage(message); err != nil {
		log.Printf("Failed to save message in room %s: %v", req.RoomID, err)
		return ws.ErrStore
	}

	return h.broadcast(req.RoomID, client, ws.EventReceiveMessage, dto.MessageResponse{
		ID:        message.ID,
		SenderID:  message.SenderID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	})
}

// ReplayHistory рассылает группе комнаты последние сообщения,
// отсортированные от старых к новым
func (h *MessageHandler) ReplayHistory(roomID uuid.UUID) error {
	messages, err := h.db.GetRoomHistory(roomID, h.historyLimit)
	if err != nil {
		log.Printf("Failed to load history for room %s: %v", roomID, err)
		return ws.ErrStore
	}

	history := make([]dto.HistoryMessage, len(messages))
	for i, msg := range messages {
		history[i] = dto.HistoryMessage{
			ID:         msg.ID,
			SenderID:   msg.SenderID,
			SenderName: msg.Sender.Username,
			Text:       msg.Text,
			IsDeleted:  msg.IsDeleted,
			CreatedAt:  msg.CreatedAt,
		}
	}

	evt, err := ws.NewEvent(ws.EventMessageHistory, dto.HistoryResponse{
		RoomID:   roomID,
		Messages: history,
	})
	if err != nil {
		return err
	}

	encoded, err := evt.Encode()
	if err != nil {
		return err
	}
	h.hub.SendToRoom(roomID, encoded)

	return nil
}

// Delete помечает сообщение как удалённое. Сообщение остаётся в хранилище
// и может быть восстановлено через undo.
func (h *MessageHandler) Delete(client *ws.Client, evt *ws.Event) error {
	message, err := h.loadOwnMessage(client, evt, ws.ErrNotDeleteOwner)
	if err != nil {
		return err
	}

	if err := h.db.SetMessageDeleted(message.ID, true); err != nil {
		log.Printf("Failed to delete message %s: %v", message.ID, err)
		return ws.ErrStore
	}

	return h.broadcast(message.RoomID, client, ws.EventMessageDeleted, dto.MessageDeletedResponse{
		MessageID: message.ID,
	})
}

// Undo снимает пометку удаления и возвращает текст группе комнаты
func (h *MessageHandler) Undo(client *ws.Client, evt *ws.Event) error {
	message, err := h.loadOwnMessage(client, evt, ws.ErrNotRestoreOwner)
	if err != nil {
		return err
	}

	if err := h.db.SetMessageDeleted(message.ID, false); err != nil {
		log.Printf("Failed to restore message %s: %v", message.ID, err)
		return ws.ErrStore
	}

	return h.broadcast(message.RoomID, client, ws.EventMessageRestored, dto.MessageRestoredResponse{
		MessageID: message.ID,
		Text:      message.Text,
	})
}

// loadOwnMessage загружает сообщение и проверяет, что запросивший — его автор
func (h *MessageHandler) loadOwnMessage(client *ws.Client, evt *ws.Event, notOwner error) (*models.Message, error) {
	var req dto.MessageRef
	if err := json.Unmarshal(evt.Data, &req); err != nil {
		return nil, ws.ErrInvalidPayload
	}
	if req.MessageID == uuid.Nil {
		return nil, ws.ErrInvalidPayload
	}

	message, err := h.db.GetMessage(req.MessageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ws.ErrMessageNotFound
		}
		log.Printf("Failed to load message %s: %v", req.MessageID, err)
		return nil, ws.ErrStore
	}

	if message.SenderID != client.UserID {
		return nil, notOwner
	}

	return message, nil
}

func (h *MessageHandler) broadcast(roomID uuid.UUID, client *ws.Client, t ws.EventType, data interface{}) error {
	evt, err := ws.NewEvent(t, data)
	if err != nil {
		return err
	}
	evt.SenderID = client.UserID
	evt.SenderName = client.Username

	encoded, err := evt.Encode()
	if err != nil {
		return err
	}
	h.hub.SendToRoom(roomID, encoded)

	return nil
}
