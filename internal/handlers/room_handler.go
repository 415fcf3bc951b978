package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
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

type RoomHandler struct {
	db       *database.Database
	hub      *ws.Hub
	messages *MessageHandler
}

func NewRoomHandler(db *database.Database, hub *ws.Hub, messages *MessageHandler) *RoomHandler {
	return &RoomHandler{db: db, hub: hub, messages: messages}
}

// Create создаёт комнату с уникальным именем. Если имя занято, возвращается
// существующая комната, дубликат не создаётся. room-created рассылается всем
// подключенным сессиям, чтобы клиенты обновили список комнат.
func (h *RoomHandler) Create(client *ws.Client, evt *ws.Event) error {
	var req dto.RoomCreateRequest
	if err := json.Unmarshal(evt.Data, &req); err != nil {
		return ws.ErrInvalidPayload
	}

	name := strings.TrimSpace(req.RoomName)
	if name == "" {
		return ws.ErrEmptyRoomName
	}

	room, err := h.findOrCreateRoom(name, client.UserID)
	if err != nil {
		return err
	}

	created, err := ws.NewEvent(ws.EventRoomCreated, formatRoom(room))
	if err != nil {
		return err
	}
	created.SenderID = client.UserID
	created.SenderName = client.Username

	encoded, err := created.Encode()
	if err != nil {
		return err
	}
	h.hub.SendToAll(encoded)

	return nil
}

func (h *RoomHandler) findOrCreateRoom(name string, creatorID uuid.UUID) (*models.Room, error) {
	room, err := h.db.GetRoomByName(name)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to look up room %q: %v", name, err)
		return nil, ws.ErrStore
	}

	newRoom := &models.Room{
		Name:      name,
		CreatedBy: creatorID,
		CreatedAt: time.Now(),
	}
	if err := h.db.CreateRoom(newRoom); err != nil {
		// Конкурентное создание с тем же именем: уникальный индекс
		// пропустил только одного, забираем его комнату.
		if room, lookupErr := h.db.GetRoomByName(name); lookupErr == nil {
			return room, nil
		}
		log.Printf("Failed to create room %q: %v", name, err)
		return nil, ws.ErrStore
	}

	if err := h.db.AddMember(newRoom.ID, creatorID); err != nil {
		log.Printf("Failed to add creator to room %q: %v", name, err)
		return nil, ws.ErrStore
	}

	return h.db.GetRoom(newRoom.ID)
}

// Join добавляет пользователя в комнату (идемпотентно), подписывает
// соединение на её события и инициирует реплей истории для группы комнаты.
func (h *RoomHandler) Join(client *ws.Client, evt *ws.Event) error {
	var req dto.RoomJoinRequest
	if err := json.Unmarshal(evt.Data, &req); err != nil {
		return ws.ErrInvalidPayload
	}
	if req.RoomID == uuid.Nil {
		return ws.ErrInvalidPayload
	}

	room, err := h.db.GetRoom(req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ws.ErrRoomNotFound
		}
		log.Printf("Failed to load room %s: %v", req.RoomID, err)
		return ws.ErrStore
	}

	if err := h.db.AddMember(room.ID, client.UserID); err != nil {
		log.Printf("Failed to add user %s to room %s: %v", client.UserID, room.ID, err)
		return ws.ErrStore
	}

	h.hub.Subscribe(client, room.ID)

	// Перечитываем комнату, чтобы снимок включал нового участника
	room, err = h.db.GetRoom(room.ID)
	if err != nil {
		log.Printf("Failed to reload room %s: %v", req.RoomID, err)
		return ws.ErrStore
	}

	joined, err := ws.NewEvent(ws.EventRoomJoined, dto.RoomJoinedResponse{
		Message: fmt.Sprintf("%s has joined the chat room", client.Username),
		Room:    formatRoom(room),
	})
	if err != nil {
		return err
	}
	joined.SenderID = client.UserID
	joined.SenderName = client.Username

	encoded, err := joined.Encode()
	if err != nil {
		return err
	}
	h.hub.SendToRoom(room.ID, encoded)

	return h.messages.ReplayHistory(room.ID)
}

func formatRoom(room *models.Room) dto.RoomResponse {
	members := make([]uuid.UUID, len(room.Members))
	for i, member := range room.Members {
		members[i] = member.ID
	}

	return dto.RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		CreatedBy: room.CreatedBy,
		Members:   members,
		CreatedAt: room.CreatedAt,
	}
}
