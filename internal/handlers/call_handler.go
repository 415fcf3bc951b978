package handlers

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatcall/internal/handlers/dto"
	ws "chatcall/internal/websocket"
)

// callState — необязательная заметка о звонке в комнате. Реле не навязывает
// жизненный цикл звонка, состояние нужно только чтобы уведомить оставшихся
// участников, когда инициатор отключается молча.
type callState struct {
	CallerID  uuid.UUID
	StartedAt time.Time
}

// CallHandler пересылает сигнальные события между сессиями, не
// интерпретируя SDP и ICE candidates. Хранилище никогда не участвует:
// пересылка синхронная и без буферизации. Candidates, пришедшие до
// установки remote description, буферизует принимающий клиент.
type CallHandler struct {
	hub *ws.Hub

	mu    sync.Mutex
	calls map[uuid.UUID]*callState
}

func NewCallHandler(hub *ws.Hub) *CallHandler {
	return &CallHandler{
		hub:   hub,
		calls: make(map[uuid.UUID]*callState),
	}
}

// Relay пересылает сигнальное событие с проставленной идентичностью
// отправителя. Адресация каноническая: initiate и end уходят группе
// комнаты, offer/answer/candidate требуют явного получателя.
func (h *CallHandler) Relay(client *ws.Client, evt *ws.Event) error {
	var addr dto.CallAddress
	if err := json.Unmarshal(evt.Data, &addr); err != nil {
		return ws.ErrInvalidPayload
	}
	if addr.RoomID == uuid.Nil {
		return ws.ErrInvalidPayload
	}
	// Сигналить можно только из комнаты, к которой сессия подписана
	if !client.IsInRoom(addr.RoomID) {
		return ws.ErrNotRoomMember
	}

	forwarded := &ws.Event{
		Type:       evt.Type,
		Data:       evt.Data,
		SenderID:   client.UserID,
		SenderName: client.Username,
		Timestamp:  time.Now(),
	}
	encoded, err := forwarded.Encode()
	if err != nil {
		return err
	}

	switch evt.Type {
	case ws.EventCallInitiate:
		h.mu.Lock()
		h.calls[addr.RoomID] = &callState{CallerID: client.UserID, StartedAt: time.Now()}
		h.mu.Unlock()
		h.hub.SendToRoomExcept(addr.RoomID, encoded, client.ID)

	case ws.EventCallEnd:
		h.mu.Lock()
		delete(h.calls, addr.RoomID)
		h.mu.Unlock()
		h.hub.SendToRoom(addr.RoomID, encoded)

	default: // offer, answer, ice-candidate
		if addr.Target == uuid.Nil {
			return ws.ErrMissingTarget
		}
		h.hub.SendToUser(addr.Target, encoded)
	}

	return nil
}

// ReleaseFor снимает состояние звонков отключившейся сессии и уведомляет
// оставшихся подписчиков комнаты событием call-end
func (h *CallHandler) ReleaseFor(client *ws.Client, roomIDs []uuid.UUID) {
	for _, roomID := range roomIDs {
		h.mu.Lock()
		state, ok := h.calls[roomID]
		if !ok || state.CallerID != client.UserID {
			h.mu.Unlock()
			continue
		}
		delete(h.calls, roomID)
		h.mu.Unlock()

		evt, err := ws.NewEvent(ws.EventCallEnd, dto.CallAddress{RoomID: roomID})
		if err != nil {
			continue
		}
		evt.SenderID = client.UserID
		evt.SenderName = client.Username

		if encoded, err := evt.Encode(); err == nil {
			h.hub.SendToRoom(roomID, encoded)
		}
	}
}

// ActiveCaller возвращает инициатора звонка в комнате, если звонок отмечен
func (h *CallHandler) ActiveCaller(roomID uuid.UUID) (uuid.UUID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.calls[roomID]
	if !ok {
		return uuid.Nil, false
	}
	return state.CallerID, true
}
