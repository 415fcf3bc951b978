package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidPayload  = errors.New("invalid message format")
	ErrUnknownEvent    = errors.New("unknown event type")

	ErrRoomNotFound    = errors.New("Room not found")
	ErrMessageNotFound = errors.New("Message not found")
	ErrNotRoomMember   = errors.New("You are not a member of this room")
	ErrNotDeleteOwner  = errors.New("You can only delete your own messages")
	ErrNotRestoreOwner = errors.New("You can only restore your own messages")
	ErrEmptyMessage    = errors.New("message text must not be empty")
	ErrEmptyRoomName   = errors.New("room name must not be empty")
	ErrMissingTarget   = errors.New("call target is required")

	// ErrStore скрывает детали отказа хранилища от клиента,
	// сам отказ пишется в лог на стороне обработчика.
	ErrStore = errors.New("internal error, please retry")
)
