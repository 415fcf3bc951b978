package dto

import (
	"time"

	"github.com/google/uuid"
)

type RoomCreateRequest struct {
	RoomName string `json:"roomName"`
}

type RoomJoinRequest struct {
	RoomID uuid.UUID `json:"roomId"`
}

type RoomResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	CreatedBy uuid.UUID   `json:"createdBy"`
	Members   []uuid.UUID `json:"members"`
	CreatedAt time.Time   `json:"createdAt"`
}

// RoomJoinedResponse несёт объявление для чата и снимок комнаты
type RoomJoinedResponse struct {
	Message string       `json:"message"`
	Room    RoomResponse `json:"room"`
}
