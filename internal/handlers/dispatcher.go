package handlers

import (
	"github.com/google/uuid"

	"chatcall/internal/database"
	ws "chatcall/internal/websocket"
)

// EventDispatcher сводит закрытое множество входящих событий к
// типизированным обработчикам. Событие вне множества явно отклоняется.
type EventDispatcher struct {
	rooms    *RoomHandler
	messages *MessageHandler
	calls    *CallHandler
}

func NewEventDispatcher(db *database.Database, hub *ws.Hub, historyLimit int) *EventDispatcher {
	messages := NewMessageHandler(db, hub, historyLimit)
	return &EventDispatcher{
		rooms:    NewRoomHandler(db, hub, messages),
		messages: messages,
		calls:    NewCallHandler(hub),
	}
}

func (d *EventDispatcher) HandleEvent(client *ws.Client, evt *ws.Event) error {
	switch evt.Type {
	case ws.EventRoomCreate:
		return d.rooms.Create(client, evt)

	case ws.EventRoomJoin:
		return d.rooms.Join(client, evt)

	case ws.EventSendMessage:
		return d.messages.Send(client, evt)

	case ws.EventDeleteMessage:
		return d.messages.Delete(client, evt)

	case ws.EventUndoMessage:
		return d.messages.Undo(client, evt)

	case ws.EventCallInitiate, ws.EventCallOffer, ws.EventCallAnswer,
		ws.EventIceCandidate, ws.EventCallEnd:
		return d.calls.Relay(client, evt)

	default:
		return ws.ErrUnknownEvent
	}
}

// HandleDisconnect добирает состояние звонков отключившейся сессии
func (d *EventDispatcher) HandleDisconnect(client *ws.Client, roomIDs []uuid.UUID) {
	d.calls.ReleaseFor(client, roomIDs)
}
